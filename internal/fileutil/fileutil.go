// Package fileutil copies exported frames to their destinations.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrSameFile reports that source and destination are the same file.
var ErrSameFile = errors.New("source and destination are the same file")

// CopyFrame copies src to dst, creating parent directories and carrying over
// the source mode and modification time. Copying a file onto itself is a
// no-op, and metadata the destination filesystem cannot store is skipped.
func CopyFrame(src, dst string) error {
	err := copyFile(src, dst)
	if errors.Is(err, ErrSameFile) {
		return nil
	}
	return err
}

func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", src)
	}
	if dstInfo, statErr := os.Stat(dst); statErr == nil && os.SameFile(srcInfo, dstInfo) {
		return ErrSameFile
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return preserveMetadata(dst, srcInfo)
}

func preserveMetadata(dst string, srcInfo os.FileInfo) error {
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil && !IsUnsupported(err) {
		return fmt.Errorf("preserve mode: %w", err)
	}
	mtime := srcInfo.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil && !IsUnsupported(err) {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}

// IsUnsupported reports whether err means the filesystem does not support the
// requested operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP)
}
