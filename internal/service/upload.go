package service

import (
	"context"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/storage"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"io"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// store validates f against kind and uploads it under prefix. The object
// name is f's sanitized name unless name is set.
func store(ctx context.Context, fs storage.FileStore, kind storage.Kind, f *Upload, name string, prefix ...string) (string, *Error) {
	l := logger.FromContext(ctx)

	if f == nil {
		return "", NewError(ErrorCodeInvalidBody, "file is required")
	}

	ext, err := storage.CheckUpload(kind, f.ContentType, f.Size)
	if err != nil {
		return "", NewError(ErrorCodeInvalidBody, err.Error())
	}

	if name == "" {
		name = f.Name
	}
	key := storage.ObjectKey(name, ext, prefix...)

	url, err := fs.Upload(ctx, key, f.ContentType, f.Size, f.Body)
	if err != nil {
		l.Error("failed to upload file", zap.String("key", key), zap.Error(errors.WithStack(err)))
		return "", NewError(ErrorCodeUpstream, "failed to store file")
	}

	l.Debug("file uploaded", zap.String("key", key), zap.Int64("size", f.Size))
	return url, nil
}

// removeObject deletes a stored upload by its public URL. Failures only leave
// an orphan behind.
func removeObject(ctx context.Context, fs storage.FileStore, url string) {
	key, ok := fs.KeyFromURL(url)
	if !ok {
		return
	}
	if err := fs.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("failed to delete object", zap.String("key", key), zap.Error(err))
	}
}
