package formatter

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes each artifact to its own file in a directory
type DirSink struct {
	OutputDir string
}

// NewDirSink creates the output directory if it doesn't exist
func NewDirSink(outputDir string) (*DirSink, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &DirSink{OutputDir: outputDir}, nil
}

// Write creates or truncates the named file and writes content to it
func (s *DirSink) Write(name string, content []byte) error {
	filename := filepath.Join(s.OutputDir, filepath.Base(name))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
