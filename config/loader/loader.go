// Package loader reads graph-configuration property bags from YAML bytes,
// optionally fetched through github.com/viant/afs so the same code handles
// local files, S3/GCS URLs, and anything else afs has a scheme for. This is
// an example external collaborator, not part of the reusable library's
// required surface: the core only needs an already-decoded config.Properties
// bag, not a particular file format or storage backend. Grounded on the
// teacher's service/dao/process/fs.Service, which uses afs.Service's
// DownloadWithURL/Upload/Exists the same way.
package loader

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/FFI-no/superflow/config"
)

// FromYAML decodes already-read YAML bytes into a config.Properties bag.
func FromYAML(data []byte) (config.Properties, error) {
	var props config.Properties
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("loader: decode YAML: %w", err)
	}
	if props == nil {
		props = config.Properties{}
	}
	return props, nil
}

// FromAFS downloads the YAML document at url using fs (an afs.Service, e.g.
// afs.New() for local/cloud storage) and decodes it into a config.Properties
// bag.
func FromAFS(ctx context.Context, fs afs.Service, url string) (config.Properties, error) {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("loader: download %s: %w", url, err)
	}
	return FromYAML(data)
}
