package usecase

import (
	"context"
	"errors"

	"guestbook-backend/internal/entity"
)

var (
	// ErrInvalidComment возвращается при невалидных данных комментария
	ErrInvalidComment = errors.New("некорректный комментарий")
	// ErrReviewUnavailable возвращается, когда комментарий не находится
	// в состоянии, допускающем ручную модерацию
	ErrReviewUnavailable = errors.New("комментарий не ожидает ручной модерации")
)

type Comment interface {
	// SubmitComment сохраняет новый комментарий (с фотографией, если она есть)
	// и ставит сообщение в очередь модерации. Возвращает ID комментария
	SubmitComment(ctx context.Context, request *entity.SubmitCommentRequest) (int, error)
	// ReviewComment применяет решение модератора: публикацию или отклонение.
	// После публикации сообщение снова ставится в очередь, чтобы воркер
	// выполнил оптимизацию фотографии
	ReviewComment(ctx context.Context, request *entity.ReviewCommentRequest) error
	// GetLastComments возвращает последние опубликованные комментарии
	GetLastComments(ctx context.Context, limit int) ([]*entity.Comment, error)
}
