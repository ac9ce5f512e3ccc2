// Package upload stores user-submitted images on local disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Upload errors.
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds the maximum size")
	ErrEmptyFile       = errors.New("empty file")
)

// allowedExtensions is the image extension allow-list.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Store saves images under a local directory and records them in the
// database. Stored names are random so originals can't collide or be
// guessed.
type Store struct {
	dir     string
	baseURL string
	maxSize int64
	repo    *repository.Repository
	logger  *slog.Logger
}

// New creates a Store and ensures the upload directory exists.
func New(dir, baseURL string, maxSize int64, repo *repository.Repository, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		maxSize: maxSize,
		repo:    repo,
		logger:  logger,
	}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes an uploaded image, then records it.
func (s *Store) Save(ctx context.Context, uploaderID string, header *multipart.FileHeader) (*model.Image, error) {
	if header.Size == 0 {
		return nil, ErrEmptyFile
	}
	if header.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	storedName := uuid.NewString() + ext
	path := filepath.Join(s.dir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove partial upload", "path", path, "error", rmErr)
		}
		return nil, err
	}

	img := &model.Image{
		ID:         ulid.Make().String(),
		URL:        s.baseURL + "/uploads/" + storedName,
		Filename:   filepath.Base(header.Filename),
		StoredName: storedName,
		SizeBytes:  written,
		UploaderID: uploaderID,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "path", path, "error", rmErr)
		}
		return nil, err
	}

	s.logger.Info("image uploaded", "image_id", img.ID, "size", written)
	return img, nil
}
