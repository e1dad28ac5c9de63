package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// Profile photos are scaled down to fit this box
	maxPhotoEdge = 512
	photoQuality = 85
)

var ErrUnsupportedImage = errors.New("invalid file type: only jpg, jpeg, png allowed")

type FileService interface {
	// UploadProfilePhoto stores a re-encoded JPEG and returns its storage path
	UploadProfilePhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	URL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadProfilePhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrUnsupportedImage
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitWithin(img, maxPhotoEdge), &jpeg.Options{Quality: photoQuality}); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}

	// profiles/{userID}/{uuid}.jpg
	name := uuid.Must(uuid.NewV7()).String() + ".jpg"
	stored, err := s.storage.Upload(ctx, buf, path.Join("profiles", userID, name), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	return stored, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) URL(path string) string {
	return s.storage.URL(path)
}

// fitWithin scales src down so neither edge exceeds maxEdge, keeping the aspect ratio
func fitWithin(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = max(1, h*maxEdge/w)
		w = maxEdge
	} else {
		w = max(1, w*maxEdge/h)
		h = maxEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
