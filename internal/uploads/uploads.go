// Package uploads stores documents attached to tasks and complaints.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/constants"
)

// formOverhead is the allowance for non-file multipart fields on top of the file limit.
const formOverhead = 1 << 20

var (
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// AllowedExtensions lists the document types accepted for upload.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Store saves uploaded files under one directory served at /uploads.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

// Dir is the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// TooLargeMessage is the client-facing message for oversized uploads.
func (s *Store) TooLargeMessage() string {
	return fmt.Sprintf("File is too large. Maximum size is %dMB.", s.maxBytes>>20)
}

// LimitBody caps multipart request bodies so oversized uploads fail while
// being read instead of filling the disk.
func (s *Store) LimitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes+formOverhead)
		}
		c.Next()
	}
}

// FormFile returns the named file of a multipart request, or nil when the
// request has none. Bodies over the limit report ErrFileTooLarge.
func (s *Store) FormFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}

	fh, err := c.FormFile(field)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile):
		return nil, nil
	case isMaxBytes(err):
		return nil, ErrFileTooLarge
	default:
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if fh.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	return fh, nil
}

// Save writes fh to disk as <unix-millis>-<name> and returns its public URL.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	base := SanitizeName(fh.Filename)
	if !AllowedExtensions[strings.ToLower(filepath.Ext(base))] {
		return "", ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, name, err := s.create(base)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1)); err != nil {
		dst.Close()
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("close upload: %w", err)
	}

	return path.Join(constants.UploadURLPrefix, name), nil
}

// Remove deletes a file previously returned by Save. URLs outside the upload
// prefix and files already gone are ignored.
func (s *Store) Remove(url string) error {
	if !strings.HasPrefix(url, constants.UploadURLPrefix+"/") {
		return nil
	}
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// create opens a new file for base, moving the timestamp forward on collisions.
func (s *Store) create(base string) (*os.File, string, error) {
	ms := s.now().UnixMilli()
	for attempt := 0; attempt < constants.MaxIDAttempts; attempt++ {
		name := strconv.FormatInt(ms+int64(attempt), 10) + "-" + base
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create upload: no free name for %q", base)
}

// SanitizeName reduces a client file name to a safe base name.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		return "file"
	}
	return clean
}

func isMaxBytes(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
