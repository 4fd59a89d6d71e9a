package repo

import (
	"context"
	"io"
)

// Photo — хранилище фотографий комментариев (S3-совместимое)
type Photo interface {
	// UploadPhoto загружает фотографию из потока
	UploadPhoto(ctx context.Context, filename string, src io.Reader, size int64, contentType string) error
	// UploadPhotoFromFile загружает фотографию из локального файла
	UploadPhotoFromFile(ctx context.Context, filename string, srcPath string) error
	// DownloadPhoto скачивает фотографию в локальный файл destPath
	DownloadPhoto(ctx context.Context, filename string, destPath string) error
}
