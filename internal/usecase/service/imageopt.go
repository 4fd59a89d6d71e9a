package service

import (
	"fmt"

	"github.com/disintegration/imaging"

	"guestbook-backend/internal/usecase"
)

// Максимальные размеры фотографии комментария после оптимизации
const (
	photoMaxWidth  = 200
	photoMaxHeight = 150
)

type ImageOptimizer struct{}

func NewImageOptimizer() usecase.ImageOptimizer {
	return &ImageOptimizer{}
}

// Resize вписывает изображение в photoMaxWidth x photoMaxHeight с сохранением
// пропорций и перезаписывает файл по тому же пути
func (o *ImageOptimizer) Resize(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("открытие изображения %s: %w", path, err)
	}
	img = imaging.Fit(img, photoMaxWidth, photoMaxHeight, imaging.Lanczos)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("сохранение изображения %s: %w", path, err)
	}
	return nil
}
