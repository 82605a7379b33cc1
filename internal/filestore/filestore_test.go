package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Idle keep-alive connections of the S3 client in integration runs.
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

func TestObjectNames(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "42_1700000000.pdf", TaskObjectName(42, "отчёт.pdf", now))
	assert.Equal(t, "project_7_1700000000.gz", ProjectObjectName(7, "backup.tar.gz", now))
	assert.Equal(t, "3_1700000000", TaskObjectName(3, "README", now))
}

func TestSuffixed(t *testing.T) {
	assert.Equal(t, "a.txt", suffixed("a.txt", 0))
	assert.Equal(t, "a-1.txt", suffixed("a.txt", 1))
	assert.Equal(t, "a-12", suffixed("a", 12))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "x.png", baseName("/srv/old/uploads/x.png"))
	assert.Equal(t, "x.png", baseName(`C:\deploy\uploads\x.png`))
	assert.Equal(t, "x.png", baseName("x.png"))
	assert.Equal(t, "", baseName("uploads/"))
}

func TestNewLocalCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	l, err := NewLocal(root)
	require.NoError(t, err)
	require.NoError(t, l.Check(context.Background()))
	assert.Equal(t, root, l.Root())

	_, err = NewLocal("")
	assert.Error(t, err)
}

func TestLocalSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	obj, err := l.Save(ctx, "1_100.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(5), obj.Size)
	assert.Equal(t, filepath.Join(l.Root(), "1_100.txt"), obj.Path)

	rc, err := l.Open(ctx, obj.Path)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestLocalSaveNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	var paths []string
	for _, body := range []string{"first", "second", "third"} {
		obj, err := l.Save(ctx, "5_1.md", strings.NewReader(body), "")
		require.NoError(t, err)
		paths = append(paths, filepath.Base(obj.Path))
	}
	assert.Equal(t, []string{"5_1.md", "5_1-1.md", "5_1-2.md"}, paths)

	b, err := os.ReadFile(filepath.Join(l.Root(), "5_1.md"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))
}

func TestLocalSaveStripsDirectories(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	obj, err := l.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(l.Root(), "passwd"), obj.Path)

	_, err = l.Save(context.Background(), "..", strings.NewReader("x"), "")
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalSaveRemovesPartialFile(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	r := io.MultiReader(bytes.NewReader([]byte("partial")), failingReader{})
	_, err = l.Save(context.Background(), "9_9.bin", r, "")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(l.Root(), "9_9.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalOpenFallsBackToBasename(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	_, err = l.Save(ctx, "2_200.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)

	// A path recorded before the upload directory moved.
	rc, err := l.Open(ctx, "/var/lib/old-host/uploads/2_200.png")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png", string(b))

	_, err = l.Open(ctx, "/nowhere/missing.png")
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = l.Open(ctx, "")
	assert.ErrorIs(t, err, ErrNotExist)

	// A directory is not a stored file.
	_, err = l.Open(ctx, l.Root())
	assert.Error(t, err)
}

func TestLocalRemove(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	obj, err := l.Save(ctx, "r.txt", strings.NewReader("x"), "")
	require.NoError(t, err)

	require.NoError(t, l.Remove(ctx, obj.Path))
	require.NoError(t, l.Remove(ctx, obj.Path))
	_, err = l.Open(ctx, obj.Path)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalSaveHonoursContext(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Save(ctx, "c.txt", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormaliseEndpoint(t *testing.T) {
	tests := []struct {
		in           string
		wantEndpoint string
		wantSecure   bool
		wantErr      bool
	}{
		{"minio:9000", "minio:9000", false, false},
		{"http://minio:9000", "minio:9000", false, false},
		{"https://minio:9000", "minio:9000", true, false},
		{"http://minio:9000/", "minio:9000", false, false},
		{"http://minio:9000/foo", "", false, true},
		{"  s3.example.com  ", "s3.example.com", false, false},
		{"", "", false, true},
	}

	for _, tt := range tests {
		ep, secure, err := normaliseEndpoint(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for input %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if ep != tt.wantEndpoint || secure != tt.wantSecure {
			t.Fatalf("normaliseEndpoint(%q) = (%q,%v), want (%q,%v)", tt.in, ep, secure, tt.wantEndpoint, tt.wantSecure)
		}
	}
}

func TestNewMinioIncompleteConfig(t *testing.T) {
	_, err := NewMinio(context.Background(), MinioConfig{Endpoint: "minio:9000", Bucket: "b"})
	assert.Error(t, err)
}
