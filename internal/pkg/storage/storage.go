package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrInvalidPath     = errors.New("invalid file path")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
)

type FileStorage interface {
	// Upload stores a file and returns its path relative to the storage root
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

type UploadOptions struct {
	ContentType string
	MaxSize     int64
	AllowedExts []string
}

// SourceUploadOptions accepts the tabular formats the loader can read.
func SourceUploadOptions(maxSize int64) UploadOptions {
	return UploadOptions{
		MaxSize:     maxSize,
		AllowedExts: []string{".xlsx", ".xlsm", ".xls", ".csv", ".txt", ".parquet"},
	}
}

// Check validates a file name and size against the options.
func (o UploadOptions) Check(filename string, size int64) error {
	if size == 0 {
		return ErrEmptyFile
	}
	if o.MaxSize > 0 && size > o.MaxSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}
	if len(o.AllowedExts) > 0 {
		ext := strings.ToLower(filepath.Ext(filename))
		if !slices.Contains(o.AllowedExts, ext) {
			return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
		}
	}
	return nil
}

// ContentType guesses the MIME type of a tabular source from its extension.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".csv", ".txt":
		return "text/csv"
	}
	return "application/octet-stream"
}
