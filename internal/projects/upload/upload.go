// Package upload stores the optional project image attached to a write request.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

// URLPrefix is the public path segment images are served under.
const URLPrefix = "images"

var allowed = map[string][]string{
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
}

// Handler writes uploaded images into a single directory.
type Handler struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// New creates a Handler storing files under dir, rejecting files over maxBytes.
func New(dir string, maxBytes int64) *Handler {
	return &Handler{dir: dir, maxBytes: maxBytes, now: time.Now}
}

// Dir is the filesystem directory images are written to.
func (h *Handler) Dir() string { return h.dir }

// MaxBytes is the per-file size cap.
func (h *Handler) MaxBytes() int64 { return h.maxBytes }

// Save validates and stores fh, returning its relative path ("images/<name>").
func (h *Handler) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > h.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, fh.Size)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimes, ok := allowed[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q", domain.ErrUnsupportedImage, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	if !matches(mt, mimes) {
		return "", fmt.Errorf("%w: content is %s", domain.ErrUnsupportedImage, mt.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	name, err := h.generateName(fh.Filename)
	if err != nil {
		return "", err
	}
	dstPath := filepath.Join(h.dir, name)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	n, err := io.Copy(dst, io.LimitReader(src, h.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > h.maxBytes {
		err = fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, n)
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("saving uploaded file failed: %w", err)
	}

	return path.Join(URLPrefix, name), nil
}

// Remove deletes a file previously returned by Save. Missing files are ignored.
func (h *Handler) Remove(relPath string) error {
	name := strings.TrimPrefix(relPath, URLPrefix+"/")
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("refusing to remove %q", relPath)
	}
	if err := os.Remove(filepath.Join(h.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// matches reports whether mt, or a format it specialises (APNG is a PNG), is one of want.
func matches(mt *mimetype.MIME, want []string) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, w := range want {
			if m.Is(w) {
				return true
			}
		}
	}
	return false
}

// generateName builds "<unix-millis>-<random hex>-<sanitized original>".
func (h *Handler) generateName(original string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate image name: %w", err)
	}
	return fmt.Sprintf("%d-%s-%s", h.now().UnixMilli(), hex.EncodeToString(b), sanitize(original)), nil
}

func sanitize(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := filepath.Ext(base)

	var sb strings.Builder
	for _, r := range strings.TrimSuffix(base, ext) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}

	stem := strings.Trim(sb.String(), ".-")
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}
