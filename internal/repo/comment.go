package repo

import (
	"context"
	"errors"

	"guestbook-backend/internal/entity"
)

var (
	// ErrCommentNotFound возвращается, когда комментарий отсутствует в базе
	ErrCommentNotFound = errors.New("комментарий не найден")
	// ErrCommentStateConflict возвращается, когда состояние комментария
	// изменилось конкурентно между чтением и записью
	ErrCommentStateConflict = errors.New("конфликт состояния комментария")
)

type Comment interface {
	// AddComment сохраняет новый комментарий и возвращает его ID
	AddComment(ctx context.Context, comment *entity.Comment) (int, error)
	// GetComment возвращает комментарий по ID
	GetComment(ctx context.Context, id int) (*entity.Comment, error)
	// UpdateCommentState атомарно записывает новое состояние комментария при условии,
	// что в базе он всё ещё находится в prevState (compare-and-swap).
	// Возвращает ErrCommentStateConflict, если условие не выполнено
	UpdateCommentState(ctx context.Context, comment *entity.Comment, prevState entity.CommentState) error
	// GetLastComments возвращает последние опубликованные комментарии
	GetLastComments(ctx context.Context, limit int) ([]*entity.Comment, error)
}
