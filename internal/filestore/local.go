package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores files in a directory on disk.
type Local struct {
	root string
}

// NewLocal uses root as the storage directory, creating it if needed.
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.New("upload directory is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{root: root}, nil
}

// Root returns the storage directory.
func (l *Local) Root() string { return l.root }

func (l *Local) Name() string { return "local" }

func (l *Local) Save(ctx context.Context, name string, r io.Reader, _ string) (Object, error) {
	name = baseName(name)
	if name == "" || name == "." || name == ".." {
		return Object{}, fmt.Errorf("invalid object name %q", name)
	}

	var (
		f    *os.File
		path string
	)
	for n := 0; n <= maxSuffix; n++ {
		if err := ctx.Err(); err != nil {
			return Object{}, err
		}
		path = filepath.Join(l.root, suffixed(name, n))
		var err error
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return Object{}, fmt.Errorf("create %s: %w", path, err)
		}
		f = nil
	}
	if f == nil {
		return Object{}, fmt.Errorf("no free name for %s", name)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return Object{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Object{Path: path, Size: size}, nil
}

func (l *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if path != "" {
		if f, err := openRegular(path); err == nil {
			return f, nil
		}
	}
	base := baseName(path)
	if base == "" || base == "." || base == ".." {
		return nil, ErrNotExist
	}
	f, err := openRegular(filepath.Join(l.root, base))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	return f, err
}

func openRegular(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && !info.Mode().IsRegular() {
		err = fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (l *Local) Remove(_ context.Context, path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Local) Check(_ context.Context) error {
	info, err := os.Stat(l.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", l.root)
	}
	return nil
}
