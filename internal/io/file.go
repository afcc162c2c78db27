// Package ioutils provides the small set of file system helpers the
// pipeline uses for artifact handling.
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"io"
	"os"
)

// CopyFile copies a file from source to destination.
//
// The copy lands on a staging name first and is only renamed onto dst
// once complete, so an interrupted copy never leaves a partial file at
// a path the stage guards treat as finished.
func CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	staging := dst + ".part"
	destFile, err := os.Create(staging)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		os.Remove(staging)
		return err
	}
	if err := destFile.Close(); err != nil {
		os.Remove(staging)
		return err
	}
	return os.Rename(staging, dst)
}

// WriteFile writes data to a file with mode 0644, staging and renaming
// the same way CopyFile does.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	staging := path + ".part"
	if err := os.WriteFile(staging, data, 0644); err != nil {
		return err
	}
	return os.Rename(staging, path)
}

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists reports whether a path exists. This is the guard backing every
// stage's skip decision, so resumption survives process restarts.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
