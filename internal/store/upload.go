package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dmorgan81/autologo/internal/log"
	"github.com/samber/do"
)

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// FileUploader writes exports into Dir.
type FileUploader struct {
	Dir string
}

func NewFileUploader(i *do.Injector) (*FileUploader, error) {
	return &FileUploader{Dir: do.MustInvokeNamed[string](i, "export_dir")}, nil
}

func (u *FileUploader) Upload(ctx context.Context, params UploadParams) error {
	path := filepath.Join(u.Dir, filepath.Base(params.Name))
	log := log.FromContextOrDiscard(ctx).WithGroup("file")
	log.Info("writing", "file", path, "content-type", params.ContentType)

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, params.Data, 0o644)
}
