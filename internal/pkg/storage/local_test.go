package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := s.Upload(ctx, strings.NewReader("jpeg bytes"), "profiles/u1/photo.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "profiles/u1/photo.jpg", stored)

	body, err := os.ReadFile(filepath.Join(dir, "profiles", "u1", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(body))

	assert.Equal(t, "http://localhost:8080/uploads/profiles/u1/photo.jpg", s.URL(stored))

	require.NoError(t, s.Delete(ctx, stored))
	_, err = os.Stat(filepath.Join(dir, "profiles", "u1", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, stored))
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	stored, err := s.Upload(context.Background(), strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", stored)
	_, err = os.Stat(filepath.Join(dir, "uploads", "etc", "passwd"))
	assert.NoError(t, err)
}

func TestLocalStorage_EmptyPath(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, s.Delete(context.Background(), "/"), ErrInvalidPath)
}
