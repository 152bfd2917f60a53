package repository

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/google/uuid"
)

// FileDisk stores uploaded documents on the local filesystem under a single
// directory. Stored names are prefixed with a fresh UUID so uploads with
// colliding client filenames never overwrite each other.
type FileDisk struct {
	dir string
}

func NewFileDisk(dir string) (*FileDisk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &FileDisk{dir: dir}, nil
}

func (s *FileDisk) Save(_ context.Context, fh *multipart.FileHeader) (*entity.UploadedFileDTO, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// filepath.Base strips any path components a hostile client sends.
	storedAs := uuid.NewString() + "-" + filepath.Base(fh.Filename)

	dst, err := os.Create(filepath.Join(s.dir, storedAs))
	if err != nil {
		return nil, fmt.Errorf("create stored file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("write stored file: %w", err)
	}

	return &entity.UploadedFileDTO{
		Filename:    fh.Filename,
		StoredAs:    storedAs,
		Size:        size,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
