// files.go - Upload, listing and inline viewing of task and project files.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"projectdesk/internal/filestore"
	"projectdesk/internal/model"
	"projectdesk/internal/store"
)

// multipartSlack covers multipart boundaries and part headers on top of
// the file size limit.
const multipartSlack = 64 << 10

// uploadTarget binds the upload flow to one parent entity.
type uploadTarget struct {
	exists     func(ctx context.Context, id int64) error
	objectName func(id int64, original string, now time.Time) string
	attach     func(ctx context.Context, id int64, f model.NewFile) (int64, error)
}

type uploadResp struct {
	Message  string `json:"message"`
	FileID   int64  `json:"file_id"`
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
	Size     int64  `json:"size"`
}

func (s *Server) handleUploadTaskFile(w http.ResponseWriter, r *http.Request) {
	s.upload(w, r, uploadTarget{
		exists:     s.store.TaskExists,
		objectName: filestore.TaskObjectName,
		attach:     s.store.AttachTaskFile,
	})
}

func (s *Server) handleUploadProjectFile(w http.ResponseWriter, r *http.Request) {
	s.upload(w, r, uploadTarget{
		exists:     s.store.ProjectExists,
		objectName: filestore.ProjectObjectName,
		attach:     s.store.AttachProjectFile,
	})
}

// upload streams the "file" part of a multipart body into the storage
// backend and records it. The blob is removed again when the database
// insert fails, so no unreferenced file is left behind.
func (s *Server) upload(w http.ResponseWriter, r *http.Request, t uploadTarget) {
	start := time.Now()
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := t.exists(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartSlack)
	part, err := filePart(r)
	if err != nil {
		s.rejectUpload(w, r, err)
		return
	}
	defer part.Close()

	filename := SanitizeFilename(part.FileName())
	if err := checkUploadName(filename); err != nil {
		s.rejectUpload(w, r, err)
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(part, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.rejectUpload(w, r, err)
		return
	}
	head = head[:n]
	contentType := uploadContentType(part.Header.Get("Content-Type"), head)

	tooLarge := &apiError{
		Status: http.StatusRequestEntityTooLarge,
		Detail: fmt.Sprintf("file exceeds %d bytes", s.maxUpload),
	}
	body := &limitReader{r: io.MultiReader(bytes.NewReader(head), part), left: s.maxUpload, err: tooLarge}

	obj, err := s.files.Save(ctx, t.objectName(id, filename, start), body, contentType)
	if err != nil {
		s.rejectUpload(w, r, err)
		return
	}

	fileID, err := t.attach(ctx, id, model.NewFile{
		Filename:    filename,
		StoredPath:  obj.Path,
		Size:        obj.Size,
		ContentType: contentType,
		UploaderID:  s.uploaderID,
	})
	if err != nil {
		if rmErr := s.files.Remove(context.WithoutCancel(ctx), obj.Path); rmErr != nil {
			s.log.WithError(rmErr).WithFields(logrus.Fields{
				"rid":  RequestIDFromContext(ctx),
				"path": obj.Path,
			}).Warn("could not remove orphaned upload")
		}
		s.metrics.RecordUploadError()
		s.fail(w, r, err)
		return
	}

	s.metrics.RecordUpload(obj.Size, time.Since(start))
	s.log.WithFields(logrus.Fields{
		"rid":     RequestIDFromContext(ctx),
		"file_id": fileID,
		"size":    obj.Size,
		"type":    contentType,
		"backend": s.files.Name(),
	}).Info("file uploaded")

	writeJSON(w, http.StatusOK, uploadResp{
		Message:  "Файл успешно загружен",
		FileID:   fileID,
		Filename: filename,
		FilePath: store.FileViewURL(fileID),
		Size:     obj.Size,
	})
}

// rejectUpload counts a failed upload as refused or broken before
// answering it.
func (s *Server) rejectUpload(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr   *apiError
		tooLarge *http.MaxBytesError
	)
	if errors.As(err, &apiErr) || errors.As(err, &tooLarge) {
		s.metrics.RecordUploadRejected()
	} else {
		s.metrics.RecordUploadError()
	}
	s.fail(w, r, err)
}

// filePart returns the multipart part named "file".
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest("multipart/form-data body with a file field is required")
	}
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, badRequest("file is required")
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, badRequest("malformed multipart body")
		}
		if p.FormName() == "file" && p.FileName() != "" {
			return p, nil
		}
		_ = p.Close()
	}
}

// limitReader fails with err once more than left bytes have been read.
type limitReader struct {
	r    io.Reader
	left int64
	err  error
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		return n, l.err
	}
	return n, err
}

func (s *Server) taskFiles(ctx context.Context, id int64) ([]model.FileInfo, error) {
	files, err := s.store.TaskFiles(ctx, id)
	return withPreview(files), err
}

func (s *Server) projectFiles(ctx context.Context, id int64) ([]model.FileInfo, error) {
	files, err := s.store.ProjectFiles(ctx, id)
	return withPreview(files), err
}

func withPreview(files []model.FileInfo) []model.FileInfo {
	for i := range files {
		files[i].CanPreview = files[i].FileType != nil && canPreview(*files[i].FileType)
	}
	return files
}

// handleViewFile streams a stored file. Types on the viewable allowlist are
// shown inline, everything else is offered as a download.
func (s *Server) handleViewFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.File(r.Context(), id)
	if err != nil {
		s.metrics.RecordViewError()
		s.fail(w, r, err)
		return
	}
	rc, err := s.files.Open(r.Context(), rec.StoredPath)
	if err != nil {
		s.metrics.RecordViewError()
		s.fail(w, r, err)
		return
	}
	defer rc.Close()

	contentType := rec.ContentType
	if baseMediaType(contentType) == "" {
		contentType = "application/octet-stream"
	}
	disposition := "attachment"
	if canPreview(contentType) {
		disposition = "inline"
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", contentDisposition(disposition, rec.Filename))
	h.Set("X-Content-Type-Options", "nosniff")

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, "", time.Time{}, rs)
		s.metrics.RecordView(rec.Size, time.Since(start))
		return
	}
	if rec.Size > 0 {
		h.Set("Content-Length", fmt.Sprint(rec.Size))
	}
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, rc)
	if err != nil {
		s.metrics.RecordViewError()
		s.log.WithError(err).WithField("rid", RequestIDFromContext(r.Context())).Warn("file stream interrupted")
		return
	}
	s.metrics.RecordView(n, time.Since(start))
}

// contentDisposition builds the header value with an ASCII fallback name
// and, for other names, an RFC 2231 encoded filename* parameter.
func contentDisposition(disposition, filename string) string {
	if isASCII(filename) {
		if v := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); v != "" {
			return v
		}
	}
	return fmt.Sprintf(`%s; filename="%s"; filename*=UTF-8''%s`,
		disposition, asciiFallback(filename), encodeRFC2231(filename))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// asciiFallback keeps printable ASCII except quotes and backslashes and
// replaces everything else with an underscore.
func asciiFallback(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r >= 0x7f || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, s)
}

func encodeRFC2231(s string) string {
	const attrChars = "!#$&+-.^_`|~"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte(attrChars, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
