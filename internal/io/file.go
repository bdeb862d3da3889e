package io

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileExists checks to see if anything exists at the given path.
func FileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check for existence of file at path '%s': %w", filePath, err)
	}
}
