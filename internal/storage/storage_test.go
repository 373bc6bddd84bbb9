package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/static/")

	url, err := s.Save(context.Background(), "diagrams/diagram_1.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	assert.Equal(t, "/static/diagrams/diagram_1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "diagrams", "diagram_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, filepath.Join(dir, "diagrams", "diagram_1.png"), s.Path("diagrams/diagram_1.png"))
}

func TestLocalStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/static")

	url, err := s.Save(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Equal(t, "/static/etc/passwd", url)
	assert.FileExists(t, filepath.Join(dir, "etc", "passwd"))

	_, err = s.Save(context.Background(), "", "text/plain", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestNewMinioStoreRequiresEndpoint(t *testing.T) {
	_, err := NewMinioStore(WithBucket("reports"))
	assert.Error(t, err)

	s, err := NewMinioStore(WithEndpoint("localhost:9000"), WithCredentials("a", "b"), WithSSL(false))
	require.NoError(t, err)
	assert.Equal(t, "auto-aspen", s.cfg.bucket)
}
