package superflow

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/FFI-no/superflow/builder"
	"github.com/FFI-no/superflow/config"
	"github.com/FFI-no/superflow/graph"
)

// Service owns a registry of proxel factories (builder.FactoryMap) and
// turns a declarative GraphSpec - built in code, decoded from YAML, or
// downloaded through afs - into a Runtime.
type Service struct {
	factoryMap       *builder.FactoryMap[config.Properties]
	fs               afs.Service
	handleExceptions bool
	crashReporter    graph.CrashReporter
}

// New builds a Service around factoryMap. Proxels not registered in
// factoryMap cannot appear in any GraphSpec this Service builds.
func New(factoryMap *builder.FactoryMap[config.Properties], opts ...Option) *Service {
	s := &Service{
		factoryMap:       factoryMap,
		fs:               afs.New(),
		handleExceptions: true,
		crashReporter:    graph.DefaultCrashReporter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build instantiates every proxel and connection named in spec and returns
// the resulting Runtime. The Runtime is not started; call Runtime.Start.
func (s *Service) Build(spec GraphSpec) (*Runtime, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	g, err := builder.Build(s.factoryMap, spec.Proxels, spec.Connections)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		graph:            g,
		handleExceptions: s.handleExceptions,
		crashReporter:    s.crashReporter,
	}, nil
}

// BuildFromYAML decodes a GraphSpec from already-read YAML bytes and Builds
// it.
func (s *Service) BuildFromYAML(data []byte) (*Runtime, error) {
	var spec GraphSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("superflow: decode graph spec: %w", err)
	}
	return s.Build(spec)
}

// LoadGraph downloads a GraphSpec document at url through the Service's
// afs.Service (local files, S3/GCS URLs, or anything else afs has a scheme
// for) and Builds it.
func (s *Service) LoadGraph(ctx context.Context, url string) (*Runtime, error) {
	data, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("superflow: download %s: %w", url, err)
	}
	return s.BuildFromYAML(data)
}
