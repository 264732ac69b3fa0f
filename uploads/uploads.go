// Package uploads stores images submitted through the dashboard forms.
package uploads

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	MaxBytes = 10 << 20
	MaxWidth = 800
)

var (
	ErrTooLarge    = errors.New("image exceeds 10 MB")
	ErrUnsupported = errors.New("unsupported image format")
)

// Store writes normalised JPEGs into Dir and hands back bare filenames, which is
// what the models persist.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// SaveImage decodes a png, jpeg or gif upload, shrinks it to MaxWidth if wider and
// stores it as <uuid>.jpg.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxBytes {
		return "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.Save(f)
}

// Save is SaveImage for an already opened reader.
func (s *Store) Save(r io.Reader) (string, error) {
	img, _, err := image.Decode(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if img.Bounds().Dx() > MaxWidth {
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	out, err := os.Create(filepath.Join(s.Dir, filename))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	return filename, nil
}
