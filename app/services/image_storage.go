package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 10 << 20

var (
	ErrUnsupportedImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")
	ErrImageTooLarge    = errors.New("the uploaded image is larger than 10 MB")
	ErrInvalidPath      = errors.New("invalid media path")
	ErrMediaNotFound    = errors.New("media file not found")
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type ImageStorage interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Delete(name string) error
	Open(name string) (*os.File, error)
	URL(name string) string
}

// LocalStorage keeps uploaded images on disk under Root. Stored names are
// relative to Root and always carry the product namespace.
type LocalStorage struct {
	Root         string
	BaseURL      string
	DefaultImage string
}

func NewLocalStorage(root, baseURL, defaultImage string) *LocalStorage {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{Root: root, BaseURL: baseURL, DefaultImage: defaultImage}
}

func (s *LocalStorage) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		log.Printf("LocalStorage.Save: rejected upload of type %s", mt.String())
		return "", ErrUnsupportedImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := models.ImageNamespace + uuid.New().String() + mt.Extension()
	full := filepath.Join(s.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

func (s *LocalStorage) Delete(name string) error {
	if name == "" || name == s.DefaultImage {
		return nil
	}
	full, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Open returns the stored file, or the default image when it is missing.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	full, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err == nil {
		if st, statErr := f.Stat(); statErr == nil && !st.IsDir() {
			return f, nil
		}
		f.Close()
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if s.DefaultImage == "" || name == s.DefaultImage {
		return nil, ErrMediaNotFound
	}
	fallback, err := s.resolve(s.DefaultImage)
	if err != nil {
		return nil, err
	}
	f, err = os.Open(fallback)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStorage) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.BaseURL + (&url.URL{Path: name}).EscapedPath()
}

func (s *LocalStorage) resolve(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// ContentType sniffs the type of a stored file for serving.
func ContentType(f io.ReadSeeker) string {
	head := make([]byte, 3072)
	n, _ := io.ReadFull(f, head)
	_, _ = f.Seek(0, io.SeekStart)
	return mimetype.Detect(head[:n]).String()
}
