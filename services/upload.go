package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const SelfieFolder = "absensi/selfie"

// PhotoUploader stores a check-in selfie and returns its public URL.
type PhotoUploader interface {
	UploadSelfie(ctx context.Context, userID uint, photo io.Reader) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadSelfie(ctx context.Context, userID uint, photo io.Reader) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, photo, uploader.UploadParams{
		Folder: SelfieFolder,
		Tags:   []string{"absensi", "selfie"},
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload for user %d: %s", userID, resp.Error.Message)
	}
	return resp.SecureURL, nil
}
