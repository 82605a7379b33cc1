// Package filestore keeps the bytes of uploaded files. Metadata lives in
// the database; a backend only knows object names and paths.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotExist is returned by Open when neither the stored path nor its
// basename resolves to an object.
var ErrNotExist = errors.New("stored file not found")

// maxSuffix bounds the -N suffixes tried before Save gives up.
const maxSuffix = 1000

// Object is the result of a successful Save.
type Object struct {
	// Path is what gets recorded in the database and later passed to Open.
	Path string
	Size int64
}

// Backend stores and retrieves file content.
type Backend interface {
	// Save writes r under name. An existing object is never overwritten;
	// a -1, -2, ... suffix is inserted before the extension instead.
	Save(ctx context.Context, name string, r io.Reader, contentType string) (Object, error)
	// Open resolves path, falling back to its basename inside the
	// backend's root.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
	// Check reports whether the backend is usable.
	Check(ctx context.Context) error
	Name() string
}

// TaskObjectName builds the stored name of a task upload:
// {taskID}_{unixSeconds}{ext}.
func TaskObjectName(taskID int64, original string, now time.Time) string {
	return fmt.Sprintf("%d_%d%s", taskID, now.Unix(), filepath.Ext(original))
}

// ProjectObjectName builds the stored name of a project upload:
// project_{projectID}_{unixSeconds}{ext}.
func ProjectObjectName(projectID int64, original string, now time.Time) string {
	return fmt.Sprintf("project_%d_%d%s", projectID, now.Unix(), filepath.Ext(original))
}

// suffixed returns name with -n inserted before its extension. n == 0
// returns name unchanged.
func suffixed(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}

// baseName strips any directory part, accepting both separators since
// legacy rows were written on Windows hosts too.
func baseName(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}
