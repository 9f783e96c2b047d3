package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// TempSibling returns a hidden temporary path in the same directory as path
// that keeps its extension, so tools that infer the format from the name
// still write the right encoding.
func TempSibling(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "."+stem+".tmp"+strconv.Itoa(os.Getpid())+ext)
}

// Replace moves src over dst. When the rename crosses filesystems the data is
// copied with dst's existing mode instead. src is removed in every case.
func Replace(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		_ = os.Remove(src)
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(dst); statErr == nil {
		mode = info.Mode().Perm()
	}
	defer os.Remove(src)
	if err := CopyFileMode(src, dst, mode); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// WriteAtomic writes data to a sibling temp file and renames it into place.
func WriteAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := TempSibling(path)
	if err := os.WriteFile(tmp, data, mode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return Replace(tmp, path)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
