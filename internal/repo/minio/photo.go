package minio

import (
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"

	"guestbook-backend/internal/repo"
)

const photoBucket = "comment-photos"

type Photo struct {
	minioClient *minio.Client
}

func NewPhoto(minioClient *minio.Client) (repo.Photo, error) {
	// Создаем бакет для фотографий, предварительно проверив, что его нет
	ctx := context.TODO()
	exists, err := minioClient.BucketExists(ctx, photoBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, photoBucket, minio.MakeBucketOptions{
			Region: "eu-central-1",
		})
		if err != nil {
			return nil, err
		}
	}
	return &Photo{
		minioClient: minioClient,
	}, nil
}

func (p *Photo) UploadPhoto(ctx context.Context, filename string, src io.Reader, size int64, contentType string) error {
	_, err := p.minioClient.PutObject(ctx, photoBucket, filename, src, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *Photo) UploadPhotoFromFile(ctx context.Context, filename string, srcPath string) error {
	// тип содержимого определяем заново: после оптимизации формат мог измениться
	mtype, err := mimetype.DetectFile(srcPath)
	if err != nil {
		return err
	}
	_, err = p.minioClient.FPutObject(ctx, photoBucket, filename, srcPath, minio.PutObjectOptions{
		ContentType: mtype.String(),
	})
	return err
}

func (p *Photo) DownloadPhoto(ctx context.Context, filename string, destPath string) error {
	return p.minioClient.FGetObject(ctx, photoBucket, filename, destPath, minio.GetObjectOptions{})
}
