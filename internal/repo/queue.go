package repo

import (
	"context"

	"guestbook-backend/internal/entity"
)

// ModerationQueue — очередь сообщений модерации. Гарантируется доставка
// хотя бы один раз; обработчик обязан быть идемпотентным.
type ModerationQueue interface {
	// PublishCommentMessage ставит сообщение в очередь модерации
	PublishCommentMessage(ctx context.Context, message *entity.CommentMessage) error
	// ConsumeCommentMessages читает сообщения и передаёт их обработчику по одному.
	// Сообщение подтверждается только после успешного возврата обработчика.
	// Блокируется до отмены контекста
	ConsumeCommentMessages(ctx context.Context, handler func(ctx context.Context, message *entity.CommentMessage) error) error
}
