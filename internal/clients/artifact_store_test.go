package clients

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLocalArtifactStore_Store(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalArtifactStore(dir, testLogger())
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), "receipt.png", []byte("payload"))
	require.NoError(t, err)

	assert.Equal(t, ".png", filepath.Ext(ref))
	// The original name is untrusted and must not survive.
	assert.NotEqual(t, "receipt.png", filepath.Base(ref))

	data, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestLocalArtifactStore_RejectsEmptyData(t *testing.T) {
	store, err := NewLocalArtifactStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	_, err = store.Store(context.Background(), "receipt.png", nil)
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestLocalArtifactStore_HonoursCancelledContext(t *testing.T) {
	store, err := NewLocalArtifactStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Store(ctx, "receipt.png", []byte("payload"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalArtifactStore_RequiresDirectory(t *testing.T) {
	_, err := NewLocalArtifactStore("", testLogger())
	assert.Error(t, err)
}
