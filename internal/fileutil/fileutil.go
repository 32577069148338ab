package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Exists reports whether path is present on fs. Any stat failure other than
// success counts as absent.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// CopyFileMode streams src to dst, setting the given file mode on dst. A
// partially written dst is removed when the copy fails.
func CopyFileMode(fs afero.Fs, src, dst string, mode os.FileMode) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
		if err != nil {
			_ = fs.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyFileNoClobber copies src to dst through a hidden temporary file in dst's
// directory and renames it into place. It fails with an error wrapping
// os.ErrExist when dst already exists, and never leaves a partial dst behind.
func CopyFileNoClobber(fs afero.Fs, src, dst string, mode os.FileMode) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := afero.TempFile(fs, filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fs.Chmod(tmpName, mode); err != nil {
		return err
	}

	// O_EXCL claims dst atomically; the rename then only ever replaces our own
	// empty placeholder.
	placeholder, err := fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	_ = placeholder.Close()
	if err = fs.Rename(tmpName, dst); err != nil {
		_ = fs.Remove(dst)
		return err
	}
	return nil
}

// CopyTree copies src to dst. Regular files are copied with their permission
// bits; directories are recreated and walked recursively.
func CopyTree(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return CopyFileMode(fs, src, dst, info.Mode().Perm())
	}

	return afero.Walk(fs, src, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			if err := fs.MkdirAll(target, fi.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("create directory %q: %w", target, err)
			}
			return nil
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		if err := CopyFileMode(fs, path, target, fi.Mode().Perm()); err != nil {
			return fmt.Errorf("copy %q: %w", rel, err)
		}
		return nil
	})
}
