// validation.go - Upload filename and content type checks
package server

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// viewableTypes may be shown inline by a browser. Everything else is
// served as an attachment.
var viewableTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,

	"application/pdf":  true,
	"application/json": true,

	"text/plain":      true,
	"text/html":       true,
	"text/css":        true,
	"text/javascript": true,

	"video/mp4":  true,
	"video/webm": true,
	"video/ogg":  true,

	"audio/mpeg": true,
	"audio/ogg":  true,
	"audio/wav":  true,
}

// dangerousExtensions lists file extensions that are refused outright
var dangerousExtensions = map[string]bool{
	".exe":   true,
	".bat":   true,
	".cmd":   true,
	".com":   true,
	".pif":   true,
	".scr":   true,
	".vbs":   true,
	".jar":   true,
	".app":   true,
	".deb":   true,
	".rpm":   true,
	".dmg":   true,
	".pkg":   true,
	".msi":   true,
	".dll":   true,
	".so":    true,
	".dylib": true,
}

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

// checkUploadName refuses executable file types.
func checkUploadName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if dangerousExtensions[ext] {
		return badRequest("file type %s is not allowed", ext)
	}
	return nil
}

// baseMediaType strips parameters and lower-cases a Content-Type value.
// It returns "" for values that do not parse.
func baseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

// uploadContentType picks the type recorded for an upload: the client's
// declared type when it is specific, otherwise the type sniffed from the
// leading bytes.
func uploadContentType(declared string, head []byte) string {
	if mt := baseMediaType(declared); mt != "" && mt != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(head).String()
}

// canPreview reports whether a stored type is on the inline allowlist.
func canPreview(contentType string) bool {
	return viewableTypes[baseMediaType(contentType)]
}

// SanitizeFilename removes potentially dangerous characters from filenames
func SanitizeFilename(filename string) string {
	// Browsers on Windows send full paths
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}

	// Control characters, NUL included
	filename = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, filename)

	filename = strings.Trim(filename, " .")

	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		stem := filename[:len(filename)-len(ext)]
		if len(ext) > 32 {
			stem, ext = filename, ""
		}
		filename = truncateUTF8(stem, 255-len(ext)) + ext
	}

	if filename == "" {
		filename = "unnamed"
	}

	return filename
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
