package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
)

// Upload is a product image received from the multipart endpoint.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// UploadResult points at the stored image.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Service stores product images on the local public disk.
type Service interface {
	SaveProductImage(ctx context.Context, upload Upload) (*UploadResult, error)
}

type service struct {
	cfg config.MediaConfig
}

// NewService constructs a media service and ensures the upload dir exists.
func NewService(cfg config.MediaConfig) (Service, error) {
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &service{cfg: cfg}, nil
}

var allowedImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
}

func (s *service) SaveProductImage(ctx context.Context, upload Upload) (*UploadResult, error) {
	maxBytes := s.cfg.MaxUploadBytes()
	if upload.Size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds the %dMB limit", s.cfg.MaxUploadMB))
	}
	if upload.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image payload required")
	}

	// Sniff the real content type; the declared multipart header is not trusted.
	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read image payload")
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are accepted")
	}

	ext := strings.ToLower(path.Ext(upload.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		ext = extensionFor(contentType)
	}

	name := uuid.NewString() + ext
	destination := filepath.Join(s.cfg.UploadDir, name)

	file, err := os.Create(destination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create image file")
	}
	defer func() { _ = file.Close() }()

	// Enforce the size cap while streaming in case the declared size lied.
	limited := io.LimitReader(upload.Reader, maxBytes-int64(len(head))+1)
	written, err := io.Copy(file, io.MultiReader(bytes.NewReader(head), limited))
	if err != nil {
		_ = os.Remove(destination)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image file")
	}
	if written > maxBytes {
		_ = os.Remove(destination)
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds the %dMB limit", s.cfg.MaxUploadMB))
	}

	return &UploadResult{
		URL:      path.Join(s.cfg.PublicPath, name),
		Filename: name,
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".img"
	}
}
