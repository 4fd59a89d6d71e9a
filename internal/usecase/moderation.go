package usecase

import (
	"context"

	"guestbook-backend/internal/entity"
)

// Оценки спам-проверки
const (
	SpamScoreHam          = 0
	SpamScorePossibleSpam = 1
	SpamScoreBlatantSpam  = 2
)

type Moderation interface {
	// HandleCommentMessage обрабатывает одно сообщение очереди модерации:
	// выполняет не более одного перехода воркфлоу и при необходимости
	// переотправляет то же сообщение для следующей стадии
	HandleCommentMessage(ctx context.Context, message *entity.CommentMessage) error
}

type SpamChecker interface {
	// GetSpamScore возвращает SpamScoreHam, SpamScorePossibleSpam или SpamScoreBlatantSpam.
	// signals — контекст отправки комментария (ip, user agent и т.д.)
	GetSpamScore(ctx context.Context, comment *entity.Comment, signals map[string]string) (int, error)
}

type Mailer interface {
	// SendCommentReviewRequest отправляет модератору письмо о новом комментарии,
	// ожидающем решения
	SendCommentReviewRequest(ctx context.Context, comment *entity.Comment) error
}

type ImageOptimizer interface {
	// Resize уменьшает изображение и перезаписывает файл по тому же пути
	Resize(path string) error
}
