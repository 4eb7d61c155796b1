package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
)

// Minimal valid PNG header followed by padding.
func pngPayload(size int) []byte {
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	payload := make([]byte, size)
	copy(payload, header)
	return payload
}

func newMediaService(t *testing.T) (Service, string) {
	t.Helper()

	dir := t.TempDir()
	svc, err := NewService(config.MediaConfig{
		UploadDir:   dir,
		PublicPath:  "/uploads",
		MaxUploadMB: 5,
	})
	require.NoError(t, err)
	return svc, dir
}

func TestSaveProductImageStoresFile(t *testing.T) {
	svc, dir := newMediaService(t)

	payload := pngPayload(2048)
	result, err := svc.SaveProductImage(context.Background(), Upload{
		Filename: "tee-front.png",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(result.Filename, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, result.Filename))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestSaveProductImageRejectsOversize(t *testing.T) {
	svc, dir := newMediaService(t)

	// 6MB declared against a 5MB cap.
	_, err := svc.SaveProductImage(context.Background(), Upload{
		Filename: "huge.png",
		Size:     6 * 1024 * 1024,
		Reader:   bytes.NewReader(pngPayload(64)),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// Nothing was written.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveProductImageRejectsNonImage(t *testing.T) {
	svc, dir := newMediaService(t)

	payload := []byte("%PDF-1.7 not an image at all, just text padding......")
	_, err := svc.SaveProductImage(context.Background(), Upload{
		Filename: "doc.pdf",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveProductImageNormalizesExtension(t *testing.T) {
	svc, _ := newMediaService(t)

	payload := pngPayload(128)
	result, err := svc.SaveProductImage(context.Background(), Upload{
		Filename: "no-extension",
		Size:     int64(len(payload)),
		Reader:   bytes.NewReader(payload),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Filename, ".png"))
}
