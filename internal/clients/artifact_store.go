package clients

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"storefront_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var _ domain.ArtifactStore = (*localArtifactStore)(nil)

// localArtifactStore keeps payment-proof artifacts on disk and hands back the
// stored path as the opaque reference persisted on the order. The lifecycle
// engine never interprets the reference.
type localArtifactStore struct {
	dir string
	log *logrus.Logger
}

func NewLocalArtifactStore(dir string, logger *logrus.Logger) (domain.ArtifactStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create artifact directory %s: %w", dir, err)
	}
	return &localArtifactStore{
		dir: dir,
		log: logger,
	}, nil
}

func (s *localArtifactStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("payment proof artifact is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Client-supplied names are untrusted; only the extension survives.
	name := uuid.NewString() + filepath.Ext(filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Errorf("Artifact Store: Failed to write artifact %s: %v", path, err)
		return "", fmt.Errorf("could not store payment proof: %w", err)
	}

	s.log.Infof("Artifact Store: Stored payment proof %s (%d bytes)", name, len(data))
	return path, nil
}
