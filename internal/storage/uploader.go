package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/config"
	"storefront/internal/services"
)

// Uploader stores image bytes and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalUploader stores files on the local filesystem.
type LocalUploader struct {
	root     string
	baseURL  string
	maxBytes int64
	now      func() time.Time
	newID    func() string
}

var _ Uploader = (*LocalUploader)(nil)

// NewLocalUploader builds an uploader from config.
func NewLocalUploader(cfg *config.Config) (*LocalUploader, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "init", "config is required", nil)
	}
	root := strings.TrimSpace(cfg.Paths.UploadDir)
	if root == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "init", "paths.upload_dir is required", nil)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "init", "create upload dir", err)
	}
	return &LocalUploader{
		root:     root,
		baseURL:  strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		maxBytes: cfg.MaxUploadBytes(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}, nil
}

// Root returns the directory files are written to.
func (u *LocalUploader) Root() string {
	return u.root
}

// Upload writes data under yyyy/mm/<uuid>.<ext> and returns its public URL.
func (u *LocalUploader) Upload(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", services.Wrap(services.ErrValidation, "storage", "upload", "file is empty", nil)
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return "", services.Wrap(services.ErrValidation, "storage", "upload",
			fmt.Sprintf("file exceeds %d bytes", u.maxBytes), nil)
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", services.Wrap(services.ErrValidation, "storage", "upload",
			fmt.Sprintf("unsupported file type %s", contentType), nil)
	}

	now := u.now().UTC()
	rel := path.Join(now.Format("2006"), now.Format("01"), u.newID()+ext)
	target := filepath.Join(u.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "storage", "upload", "create directory", err)
	}
	if err := writeFileAtomic(target, data, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "storage", "upload", "write file", err)
	}
	return u.baseURL + "/" + rel, nil
}

func writeFileAtomic(target string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "upload-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
