package assets

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Stats summarises a CopyTree run.
type Stats struct {
	Files   int
	Skipped int
	Bytes   int64
}

// CopyTree copies every regular file under src accepted by filter into dst,
// keeping relative paths. Directories are created only when a file lands in
// them.
func CopyTree(ctx context.Context, src, dst string, filter Filter) (Stats, error) {
	var stats Stats

	info, err := os.Stat(src)
	if err != nil {
		return stats, &CopyError{Path: src, Message: "source directory not accessible", Cause: err}
	}
	if !info.IsDir() {
		return stats, &CopyError{Path: src, Message: "source is not a directory"}
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &CopyError{Path: path, Message: "failed to walk", Cause: walkErr}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return &CopyError{Path: path, Message: "failed to resolve relative path", Cause: err}
		}
		if filter != nil && !filter(filepath.ToSlash(rel)) {
			stats.Skipped++
			return nil
		}

		n, err := CopyFile(path, filepath.Join(dst, rel))
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})

	return stats, err
}

// CopyFile copies a single file, creating parent directories of dst.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, &CopyError{Path: src, Message: "failed to open", Cause: err}
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, &CopyError{Path: dst, Message: "failed to create directory", Cause: err}
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, &CopyError{Path: dst, Message: "failed to create", Cause: err}
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, &CopyError{Path: dst, Message: "failed to write", Cause: err}
	}
	return n, nil
}

// Clean removes dir and everything in it, then recreates it empty.
// It refuses to clean the filesystem root or the working directory.
func Clean(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return &CopyError{Path: dir, Message: "failed to resolve path", Cause: err}
	}
	cwd, err := os.Getwd()
	if err == nil && abs == cwd {
		return &CopyError{Path: dir, Message: "refusing to clean the working directory"}
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return &CopyError{Path: dir, Message: "refusing to clean the filesystem root"}
	}

	if err := os.RemoveAll(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &CopyError{Path: dir, Message: "failed to remove", Cause: err}
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return &CopyError{Path: dir, Message: "failed to create", Cause: err}
	}
	return nil
}
