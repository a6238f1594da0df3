package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckUpload(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		contentType string
		size        int64
		expectedExt string
		expectedErr error
	}{
		{name: "success: png cover", kind: KindImage, contentType: "image/png", size: 2048, expectedExt: ".png"},
		{name: "success: pdf with params", kind: KindDocument, contentType: "application/pdf; charset=binary", size: 1 << 20, expectedExt: ".pdf"},
		{name: "failure: svg logo", kind: KindImage, contentType: "image/svg+xml", size: 512, expectedErr: ErrUnsupportedType},
		{name: "failure: html as image", kind: KindImage, contentType: "text/html", size: 512, expectedErr: ErrUnsupportedType},
		{name: "failure: pdf as image", kind: KindImage, contentType: "application/pdf", size: 10, expectedErr: ErrUnsupportedType},
		{name: "failure: empty file", kind: KindDocument, contentType: "application/pdf", size: 0, expectedErr: ErrEmptyFile},
		{name: "failure: too large", kind: KindDocument, contentType: "application/pdf", size: MaxUploadSize + 1, expectedErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := CheckUpload(tt.kind, tt.contentType, tt.size)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedExt, ext)
		})
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "submissions/bpc/team-1/preliminary/proposal.pdf",
		ObjectKey("proposal.pdf", ".pdf", "submissions", "bpc", "team-1", "preliminary"))

	assert.Equal(t, "covers/My-Cover-Photo.png", ObjectKey("My Cover Photo", ".png", "covers"))

	assert.Equal(t, "covers/passwd.jpg", ObjectKey("../../etc/passwd", ".jpg", "covers"))

	assert.Equal(t, "logos/sponsor.png", ObjectKey("sponsor.svg", ".png", "logos"))

	key := ObjectKey("", ".webp", "logos")
	assert.True(t, strings.HasPrefix(key, "logos/"))
	assert.True(t, strings.HasSuffix(key, ".webp"))
}

func TestS3Store_PublicURL(t *testing.T) {
	s := &S3Store{baseURL: "https://cdn.makarapreneur.id/assets"}

	url := s.PublicURL("covers/a.png")
	assert.Equal(t, "https://cdn.makarapreneur.id/assets/covers/a.png", url)

	key, ok := s.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "covers/a.png", key)

	_, ok = s.KeyFromURL("https://elsewhere.example.com/a.png")
	assert.False(t, ok)
}
