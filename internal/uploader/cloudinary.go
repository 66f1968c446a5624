// Package uploader implements the ObjectUploader capability against the
// Cloudinary upload API, which publishes synthesized audio under a durable
// public URL.
package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	cldapi "github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Environment variable names for the Cloudinary account.
const (
	envCloudName = "CLOUDINARY_CLOUD_NAME"
	envAPIKey    = "CLOUDINARY_API_KEY"
	envAPISecret = "CLOUDINARY_API_SECRET"
)

// Cloudinary stores audio under the video resource type.
const audioResourceType = "video"

// Static errors.
var (
	// ErrMissingCredentials indicates required CLOUDINARY_* environment
	// variables are unset.
	ErrMissingCredentials = errors.New("missing cloudinary credentials")
	// ErrEmptyKey indicates the object key is empty.
	ErrEmptyKey = errors.New("object key cannot be empty")
	// ErrUploadRejected indicates Cloudinary answered with an error payload.
	ErrUploadRejected = errors.New("cloudinary rejected the upload")
)

// CloudinaryUploader uploads audio bytes to a Cloudinary folder and returns
// the secure delivery URL. It implements core.ObjectUploader.
type CloudinaryUploader struct {
	client  *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

// NewCloudinaryUploader creates an uploader for the account named by the
// CLOUDINARY_* environment variables.
func NewCloudinaryUploader(folder string, timeout time.Duration) (*CloudinaryUploader, error) {
	cloudName := os.Getenv(envCloudName)
	apiKey := os.Getenv(envAPIKey)
	apiSecret := os.Getenv(envAPISecret)

	var missing []string

	if cloudName == "" {
		missing = append(missing, envCloudName)
	}

	if apiKey == "" {
		missing = append(missing, envAPIKey)
	}

	if apiSecret == "" {
		missing = append(missing, envAPISecret)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryUploader{
		client:  client,
		folder:  folder,
		timeout: timeout,
	}, nil
}

// Upload publishes data under the configured folder with key as the public
// ID and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	uploadCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	result, err := u.client.Upload.Upload(uploadCtx, bytes.NewReader(data), cldapi.UploadParams{
		PublicID:     key,
		Folder:       u.folder,
		ResourceType: audioResourceType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object '%s' to cloudinary: %w", key, err)
	}

	// The SDK reports API-level rejections inside the result rather than as
	// an error return.
	if result.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUploadRejected, result.Error.Message)
	}

	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: no secure URL in response", ErrUploadRejected)
	}

	return result.SecureURL, nil
}
