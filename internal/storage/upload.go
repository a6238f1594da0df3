package storage

import (
	"fmt"
	"github.com/google/uuid"
	"path"
	"regexp"
	"strings"
)

const MaxUploadSize = 10 << 20

type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

var allowedTypes = map[Kind]map[string]string{
	KindImage: {
		"image/png":  ".png",
		"image/jpeg": ".jpg",
		"image/webp": ".webp",
	},
	KindDocument: {
		"application/pdf": ".pdf",
	},
}

var (
	ErrFileTooLarge     = fmt.Errorf("file exceeds %d bytes", MaxUploadSize)
	ErrEmptyFile        = fmt.Errorf("file is empty")
	ErrUnsupportedType  = fmt.Errorf("unsupported file type")
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)

// CheckUpload validates a file before it is sent to the store and returns its extension.
func CheckUpload(kind Kind, contentType string, size int64) (string, error) {
	if size <= 0 {
		return "", ErrEmptyFile
	}
	if size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedTypes[kind][mediaType]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// ObjectKey joins the prefix parts with a sanitized file name whose extension
// is replaced by ext. When name is empty a random one is generated.
func ObjectKey(name, ext string, prefix ...string) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(path.Base(name), "-"), "-.")
	if base == "" {
		base = uuid.NewString() + ext
	} else {
		base = strings.TrimSuffix(base, path.Ext(base)) + ext
	}

	parts := append(append([]string{}, prefix...), base)
	return path.Join(parts...)
}
