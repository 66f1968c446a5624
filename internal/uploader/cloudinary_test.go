// Package uploader_test tests the Cloudinary uploader construction.
package uploader_test

import (
	"context"
	"testing"
	"time"

	"github.com/ngqkhai/voice-synthesis/internal/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloudinaryUploader_MissingCredentials(t *testing.T) {
	// Not parallel: manipulates process environment.
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("CLOUDINARY_API_KEY", "")
	t.Setenv("CLOUDINARY_API_SECRET", "")

	_, err := uploader.NewCloudinaryUploader("voice-synthesis", 30*time.Second)
	require.ErrorIs(t, err, uploader.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "CLOUDINARY_CLOUD_NAME")
	assert.Contains(t, err.Error(), "CLOUDINARY_API_KEY")
	assert.Contains(t, err.Error(), "CLOUDINARY_API_SECRET")
}

func TestNewCloudinaryUploader_RejectsEmptyKey(t *testing.T) {
	// Not parallel: manipulates process environment.
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	up, err := uploader.NewCloudinaryUploader("voice-synthesis", 30*time.Second)
	require.NoError(t, err)

	_, err = up.Upload(context.Background(), "", []byte("audio"))
	require.ErrorIs(t, err, uploader.ErrEmptyKey)
}
