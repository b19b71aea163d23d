// Package imagestore keeps outfit images on local disk under a public root.
// References are slash-separated paths relative to that root, for example
// "uploads/outfits/<id>.jpg".
package imagestore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"outfitstore/internal/apperr"
)

const (
	uploadsPrefix = "uploads/"
	outfitsDir    = "uploads/outfits"
	MaxImageSize  = 5 << 20
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: filepath.Clean(root)}
}

// Save stores an uploaded image and returns its reference. The content type
// is sniffed from the bytes; the client-supplied name is ignored.
func (s *Local) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", apperr.Validation("image is empty")
	}
	if len(data) > MaxImageSize {
		return "", apperr.Validation("image file too large (max 5MB)")
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedTypes[detected.String()]
	if !ok {
		return "", apperr.Validation("unsupported image type: %s", detected.String())
	}

	dir := filepath.Join(s.root, filepath.FromSlash(outfitsDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.NewString() + ext
	out, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(outfitsDir, filename), nil
}

// Delete removes the referenced image. Missing files and empty references are
// not errors; references outside the uploads tree are refused.
func (s *Local) Delete(ref string) error {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, uploadsPrefix) {
		return fmt.Errorf("refusing to delete non-upload path: %s", ref)
	}

	target := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(cleanRel)))
	if target != s.root && !strings.HasPrefix(target, s.root+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", ref)
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
