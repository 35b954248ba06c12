package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage hands out collision-free file names under an output directory
// and a scratch directory for intermediate artifacts.
type LocalStorage struct {
	outputDir string
	tmpDir    string
	newID     func() string
}

func NewLocalStorage(outputDir, tmpDir string) *LocalStorage {
	if tmpDir == "" {
		tmpDir = filepath.Join(outputDir, "tmp")
	}
	return &LocalStorage{
		outputDir: outputDir,
		tmpDir:    tmpDir,
		newID:     uuid.NewString,
	}
}

func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

func (s *LocalStorage) TmpDir() string {
	return s.tmpDir
}

// NewID returns a fresh random identifier for naming a file.
func (s *LocalStorage) NewID() string {
	return s.newID()
}

// TmpPath joins name onto the scratch directory.
func (s *LocalStorage) TmpPath(name string) string {
	return filepath.Join(s.tmpDir, name)
}

// OutputPath returns a new unique path in the output directory.
func (s *LocalStorage) OutputPath(ext string) string {
	return filepath.Join(s.outputDir, s.newID()+ext)
}

// SaveText writes content to a new uniquely named .txt file in the output
// directory and returns its path.
func (s *LocalStorage) SaveText(content string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.OutputPath(".txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.MkdirAll(s.tmpDir, 0755); err != nil {
		return fmt.Errorf("failed to create tmp directory: %w", err)
	}

	return nil
}
