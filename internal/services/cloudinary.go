package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const maxImageBytes = 10 << 20

// ErrImageTooLarge is returned before any upload is attempted.
var ErrImageTooLarge = errors.New("image too large")

// CloudinaryService uploads personal recipe images.
type CloudinaryService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryService(cloudName, apiKey, apiSecret, folder string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryService{
		cld:    cld,
		folder: folder,
	}, nil
}

// UploadImage stores the image under a random public id and returns its HTTPS URL.
func (s *CloudinaryService) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	fileBytes, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileBytes) > maxImageBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrImageTooLarge, maxImageBytes)
	}

	uploadResult, err := s.cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", uploadResult.Error.Message)
	}

	return uploadResult.SecureURL, nil
}
