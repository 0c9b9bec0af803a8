package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SafeSaveIOToFile writes r into a temp file next to dst and renames it over
// dst, a failed copy never leaves a partial dst behind.
func SafeSaveIOToFile(dst string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create directory failed: %w", err)
	}
	dstTmp := dst + "." + uuid.NewString() + ".temp"
	f, err := os.OpenFile(dstTmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("create tmp file failed: %w", err)
	}
	defer os.Remove(dstTmp)
	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("copy stream to tmp file failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close tmp file failed: %w", err)
	}
	if err := os.Rename(dstTmp, dst); err != nil {
		return n, fmt.Errorf("rename tmp file to target failed: %w", err)
	}
	return n, nil
}

// CheckEntryName rejects names that would escape the target directory.
func CheckEntryName(name string) error {
	if len(name) == 0 || name == "." || name == ".." {
		return fmt.Errorf("invalid entry name:%q", name)
	}
	for _, c := range name {
		if c == '/' || c == '\\' {
			return fmt.Errorf("entry name should not contain path separator, name:%q", name)
		}
	}
	return nil
}
