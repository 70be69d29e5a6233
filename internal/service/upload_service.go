package service

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// allowedUploadTypes maps accepted content types to the stored extension.
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// UploadService validates and stores message attachments on local disk and
// returns the reference URL callers embed in messages. The reference is
// opaque to the rest of the system.
type UploadService struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadService constructs the service and ensures the upload directory
// exists.
func NewUploadService(cfg config.UploadConfig, logger *zap.Logger) (*UploadService, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{dir: cfg.Dir, maxBytes: cfg.MaxSizeBytes, logger: logger}, nil
}

// Store validates the uploaded file against the type allow-list and size cap,
// writes it under a random name, and returns its public URL. Nothing is
// retained when validation fails; a partial file from a failed copy is
// removed.
func (s *UploadService) Store(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.NewValidationError("no file uploaded", nil)
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return "", apperrors.NewValidationError("file too large", map[string]any{
			"max_bytes": s.maxBytes,
			"size":      file.Size,
		})
	}
	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		return "", apperrors.NewValidationError("unsupported file type", map[string]any{
			"content_type": contentType,
		})
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		if removeErr := os.Remove(path); removeErr != nil {
			s.logger.Warn("failed to remove partial upload", zap.String("path", path), zap.Error(removeErr))
		}
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// Dir returns the storage directory, used to serve files statically.
func (s *UploadService) Dir() string {
	return s.dir
}
