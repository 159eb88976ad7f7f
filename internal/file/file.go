package file

import (
	"context"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type FileUploader struct {
	cloud_name string
	api_key    string
	api_secret string
	logger     *slog.Logger
}

func New(cloud_name, api_key, api_secret string, logger *slog.Logger) *FileUploader {
	return &FileUploader{
		cloud_name: cloud_name,
		api_key:    api_key,
		api_secret: api_secret,
		logger:     logger,
	}
}

// UploadFile pushes a locally stored file to Cloudinary and returns the
// hosted URL. folder groups uploads per concern, e.g. "kyc/documents".
func (f *FileUploader) UploadFile(fileName, folder string) (string, error) {
	cld, err := cloudinary.NewFromParams(f.cloud_name, f.api_key, f.api_secret)
	if err != nil {
		return "", err
	}

	ctx := context.Background()
	uploadResult, err := cld.Upload.Upload(ctx, fileName, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return "", err
	}

	f.logger.Info("file uploaded", slog.Group("upload", "file", fileName, "url", uploadResult.SecureURL))
	return uploadResult.SecureURL, nil
}
