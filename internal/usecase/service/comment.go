package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/repo"
	"guestbook-backend/internal/usecase"
	"guestbook-backend/internal/workflow"
)

type Comment struct {
	commentRepo repo.Comment
	photoRepo   repo.Photo
	queue       repo.ModerationQueue
	workflow    *workflow.Definition
}

func NewComment(commentRepo repo.Comment, photoRepo repo.Photo, queue repo.ModerationQueue) usecase.Comment {
	return &Comment{
		commentRepo: commentRepo,
		photoRepo:   photoRepo,
		queue:       queue,
		workflow:    workflow.CommentModeration(),
	}
}

func (c *Comment) SubmitComment(ctx context.Context, request *entity.SubmitCommentRequest) (int, error) {
	if err := request.IsValid(); err != nil {
		return 0, fmt.Errorf("%w: %v", usecase.ErrInvalidComment, err)
	}

	comment := &entity.Comment{
		Author:    request.Author,
		Email:     request.Email,
		Text:      request.Text,
		State:     entity.CommentStateSubmitted,
		CreatedAt: time.Now(),
	}

	if request.Photo != nil {
		// к имени файла добавляем uuid, чтобы избежать коллизий и проблем
		// с кириллицей и пробелами в пользовательских именах
		filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(request.PhotoFilename))
		if err := c.photoRepo.UploadPhoto(ctx, filename, request.Photo, request.PhotoSize, request.PhotoContentType); err != nil {
			return 0, fmt.Errorf("загрузка фотографии: %w", err)
		}
		comment.PhotoFilename = &filename
	}

	commentID, err := c.commentRepo.AddComment(ctx, comment)
	if err != nil {
		return 0, fmt.Errorf("сохранение комментария: %w", err)
	}

	message := &entity.CommentMessage{
		CommentID: commentID,
		Context:   request.Context,
	}
	if err := c.queue.PublishCommentMessage(ctx, message); err != nil {
		return 0, fmt.Errorf("постановка комментария %d в очередь модерации: %w", commentID, err)
	}

	return commentID, nil
}

func (c *Comment) ReviewComment(ctx context.Context, request *entity.ReviewCommentRequest) error {
	comment, err := c.commentRepo.GetComment(ctx, request.CommentID)
	if err != nil {
		return err
	}

	var transition string
	switch {
	case request.Accepted && c.workflow.Can(comment, workflow.TransitionPublish):
		transition = workflow.TransitionPublish
	case request.Accepted && c.workflow.Can(comment, workflow.TransitionPublishHam):
		transition = workflow.TransitionPublishHam
	case !request.Accepted && c.workflow.Can(comment, workflow.TransitionReject):
		transition = workflow.TransitionReject
	case !request.Accepted && c.workflow.Can(comment, workflow.TransitionRejectHam):
		transition = workflow.TransitionRejectHam
	default:
		return usecase.ErrReviewUnavailable
	}

	prevState := comment.State
	if err := c.workflow.Apply(comment, transition); err != nil {
		if errors.Is(err, workflow.ErrIllegalTransition) {
			return usecase.ErrReviewUnavailable
		}
		return err
	}
	if err := c.commentRepo.UpdateCommentState(ctx, comment, prevState); err != nil {
		return err
	}

	// после публикации снова запускаем конвейер: воркер выполнит
	// оптимизацию фотографии асинхронно
	if request.Accepted {
		return c.queue.PublishCommentMessage(ctx, &entity.CommentMessage{
			CommentID: comment.ID,
			Context:   map[string]string{},
		})
	}
	return nil
}

func (c *Comment) GetLastComments(ctx context.Context, limit int) ([]*entity.Comment, error) {
	return c.commentRepo.GetLastComments(ctx, limit)
}
