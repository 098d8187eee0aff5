package pipeline

import (
	"fmt"
	"io"
	"os"
)

// writeOutput fills path.part through fill and renames it over path only when
// fill and the flush both succeed, so a failed stage never leaves a
// half-written artifact behind.
func writeOutput(path string, fill func(w io.Writer) (int64, error)) (int64, error) {
	tempPath := path + ".part"
	_ = os.Remove(tempPath)

	outFile, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	success := false
	defer func() {
		_ = outFile.Close()
		if !success {
			_ = os.Remove(tempPath)
		}
	}()

	written, err := fill(outFile)
	if err != nil {
		return written, err
	}

	if err := outFile.Sync(); err != nil {
		return written, fmt.Errorf("sync temp file: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return written, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return written, fmt.Errorf("move temp file into place: %w", err)
	}

	success = true
	return written, nil
}
