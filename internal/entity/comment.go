package entity

import (
	"errors"
	"io"
	"time"
	"unicode/utf8"
)

// CommentState — текущее состояние комментария в жизненном цикле модерации.
// Меняется только через переход воркфлоу, прямые записи запрещены.
type CommentState string

const (
	CommentStateSubmitted     CommentState = "submitted"
	CommentStateSpam          CommentState = "spam"
	CommentStateHam           CommentState = "ham"
	CommentStatePotentialSpam CommentState = "potential_spam"
	CommentStatePublished     CommentState = "published"
	CommentStatePublishedHam  CommentState = "published_ham"
	CommentStateRejected      CommentState = "rejected"
)

type Comment struct {
	ID             int          `json:"id" db:"id"`
	Author         string       `json:"author" db:"author"`
	Email          string       `json:"email" db:"email"`
	Text           string       `json:"text" db:"text"`
	State          CommentState `json:"state" db:"state"`
	PhotoFilename  *string      `json:"photo_filename" db:"photo_filename"`
	PhotoOptimized bool         `json:"photo_optimized" db:"photo_optimized"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// HasPhoto сообщает, прикреплена ли к комментарию фотография
func (c *Comment) HasPhoto() bool {
	return c.PhotoFilename != nil && *c.PhotoFilename != ""
}

type SubmitCommentRequest struct {
	Author string
	Email  string
	Text   string
	// Фотография опциональна. Photo == nil означает, что файла нет
	Photo            io.ReadSeeker
	PhotoFilename    string
	PhotoSize        int64
	PhotoContentType string
	// Контекст отправки (ip, user agent и т.д.) — сигналы для проверки на спам
	Context map[string]string
}

func (r *SubmitCommentRequest) IsValid() error {
	if r.Author == "" {
		return errors.New("не указан автор")
	}
	if r.Email == "" {
		return errors.New("не указан email")
	}
	if r.Text == "" {
		return errors.New("пустой текст комментария")
	}
	if utf8.RuneCountInString(r.Text) > 10000 {
		return errors.New("текст комментария слишком длинный")
	}
	return nil
}

type ReviewCommentRequest struct {
	CommentID int  `json:"comment_id"`
	Accepted  bool `json:"accepted"`
}

type GetLastCommentsRequest struct {
	Limit int `query:"limit"`
}
