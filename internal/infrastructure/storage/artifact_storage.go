package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalArtifactStorage stores receipt files on the local filesystem and
// derives the URL they are served from. Implements port.ArtifactStorage.
type LocalArtifactStorage struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// NewLocalArtifactStorage creates a new LocalArtifactStorage. baseURL is the
// public prefix receipts are served under, e.g. "/uploads".
func NewLocalArtifactStorage(baseDir, baseURL string, logger *zap.Logger) *LocalArtifactStorage {
	return &LocalArtifactStorage{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Save writes a receipt under baseDir and returns its served URL.
func (s *LocalArtifactStorage) Save(ctx context.Context, relativePath string, content []byte) (string, error) {
	fullPath := filepath.Join(s.baseDir, relativePath)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create receipt directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	url := s.baseURL + "/" + filepath.ToSlash(relativePath)
	s.logger.Debug("Receipt saved",
		zap.String("path", fullPath),
		zap.String("url", url),
		zap.Int("size", len(content)))

	return url, nil
}

// Read returns the stored receipt bytes.
func (s *LocalArtifactStorage) Read(ctx context.Context, relativePath string) ([]byte, error) {
	fullPath := filepath.Join(s.baseDir, relativePath)
	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	return content, nil
}

// Exists reports whether a receipt is stored under the path.
func (s *LocalArtifactStorage) Exists(ctx context.Context, relativePath string) bool {
	fullPath := filepath.Join(s.baseDir, relativePath)
	if err := s.validatePath(fullPath); err != nil {
		return false
	}
	_, err := os.Stat(fullPath)
	return err == nil
}

// validatePath checks that the path stays within baseDir.
func (s *LocalArtifactStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes receipt directory: %s", fullPath)
	}
	return nil
}
