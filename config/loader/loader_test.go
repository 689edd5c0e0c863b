package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestFromYAML_DecodesScalarProperties(t *testing.T) {
	props, err := FromYAML([]byte("replicas: 3\nname: worker\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, props["replicas"])
	assert.Equal(t, "worker", props["name"])
}

func TestFromYAML_EmptyDocumentYieldsEmptyProperties(t *testing.T) {
	props, err := FromYAML([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestFromYAML_InvalidYAMLFails(t *testing.T) {
	_, err := FromYAML([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestFromAFS_DownloadsAndDecodes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "proxel.yaml")
	require.NoError(t, os.WriteFile(file, []byte("buffer_size: 8\n"), 0o644))

	fs := afs.New()
	props, err := FromAFS(context.Background(), fs, "file://"+file)
	require.NoError(t, err)
	assert.Equal(t, 8, props["buffer_size"])
}

func TestFromAFS_MissingFileFails(t *testing.T) {
	fs := afs.New()
	_, err := FromAFS(context.Background(), fs, "file:///no/such/file.yaml")
	assert.Error(t, err)
}
