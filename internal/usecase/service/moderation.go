package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/labstack/gommon/log"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/repo"
	"guestbook-backend/internal/usecase"
	"guestbook-backend/internal/workflow"
)

// Moderation — обработчик конвейера модерации. Одна доставка сообщения —
// не более одного перехода воркфлоу, одного внешнего вызова и одной
// переотправки сообщения.
type Moderation struct {
	commentRepo    repo.Comment
	photoRepo      repo.Photo
	queue          repo.ModerationQueue
	spamChecker    usecase.SpamChecker
	mailer         usecase.Mailer
	imageOptimizer usecase.ImageOptimizer
	workflow       *workflow.Definition
	photoDir       string
}

func NewModeration(
	commentRepo repo.Comment,
	photoRepo repo.Photo,
	queue repo.ModerationQueue,
	spamChecker usecase.SpamChecker,
	mailer usecase.Mailer,
	imageOptimizer usecase.ImageOptimizer,
	photoDir string,
) usecase.Moderation {
	return &Moderation{
		commentRepo:    commentRepo,
		photoRepo:      photoRepo,
		queue:          queue,
		spamChecker:    spamChecker,
		mailer:         mailer,
		imageOptimizer: imageOptimizer,
		workflow:       workflow.CommentModeration(),
		photoDir:       photoDir,
	}
}

func (m *Moderation) HandleCommentMessage(ctx context.Context, message *entity.CommentMessage) error {
	comment, err := m.commentRepo.GetComment(ctx, message.CommentID)
	if errors.Is(err, repo.ErrCommentNotFound) {
		// комментарий мог быть удален между постановкой в очередь и доставкой —
		// сообщение устарело, это не ошибка
		log.Debugf("Комментарий %d не найден, сообщение отброшено", message.CommentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("загрузка комментария %d: %w", message.CommentID, err)
	}

	// Порядок проверок важен: комментарий может номинально подходить под несколько
	// переходов, но семантически актуальна только одна стадия
	switch {
	case m.workflow.Can(comment, workflow.TransitionAccept):
		return m.handleSpamStage(ctx, comment, message)
	case m.workflow.Can(comment, workflow.TransitionPublish) || m.workflow.Can(comment, workflow.TransitionPublishHam):
		return m.handleNotificationStage(ctx, comment)
	case m.workflow.Can(comment, workflow.TransitionOptimize):
		return m.handlePhotoStage(ctx, comment)
	default:
		// комментарий уже полностью обработан либо отклонен
		log.Debugf("Нет допустимого перехода для комментария %d в состоянии %q, сообщение отброшено", comment.ID, comment.State)
		return nil
	}
}

// handleSpamStage — стадия проверки на спам. Единственная стадия,
// зацикливающая конвейер: после перехода то же сообщение отправляется снова
func (m *Moderation) handleSpamStage(ctx context.Context, comment *entity.Comment, message *entity.CommentMessage) error {
	score, err := m.spamChecker.GetSpamScore(ctx, comment, message.Context)
	if err != nil {
		return fmt.Errorf("проверка комментария %d на спам: %w", comment.ID, err)
	}

	transition := workflow.TransitionAccept
	switch score {
	case usecase.SpamScoreBlatantSpam:
		transition = workflow.TransitionRejectSpam
	case usecase.SpamScorePossibleSpam:
		transition = workflow.TransitionMightBeSpam
	}

	prevState := comment.State
	if err := m.workflow.Apply(comment, transition); err != nil {
		return err
	}
	if err := m.commentRepo.UpdateCommentState(ctx, comment, prevState); err != nil {
		return err
	}

	// переотправляем то же сообщение: следующая стадия определится
	// по сохраненному состоянию при следующей доставке
	return m.queue.PublishCommentMessage(ctx, message)
}

// handleNotificationStage — стадия уведомления: комментарий ожидает решения
// модератора. Переход не применяется, публикация выполняется вручную
func (m *Moderation) handleNotificationStage(ctx context.Context, comment *entity.Comment) error {
	if err := m.mailer.SendCommentReviewRequest(ctx, comment); err != nil {
		return fmt.Errorf("уведомление о комментарии %d: %w", comment.ID, err)
	}
	return nil
}

// handlePhotoStage — стадия оптимизации фотографии после публикации
func (m *Moderation) handlePhotoStage(ctx context.Context, comment *entity.Comment) error {
	if comment.HasPhoto() {
		path := filepath.Join(m.photoDir, *comment.PhotoFilename)
		if err := m.photoRepo.DownloadPhoto(ctx, *comment.PhotoFilename, path); err != nil {
			return fmt.Errorf("скачивание фотографии комментария %d: %w", comment.ID, err)
		}
		if err := m.imageOptimizer.Resize(path); err != nil {
			return fmt.Errorf("оптимизация фотографии комментария %d: %w", comment.ID, err)
		}
		if err := m.photoRepo.UploadPhotoFromFile(ctx, *comment.PhotoFilename, path); err != nil {
			return fmt.Errorf("загрузка фотографии комментария %d: %w", comment.ID, err)
		}
	}

	prevState := comment.State
	if err := m.workflow.Apply(comment, workflow.TransitionOptimize); err != nil {
		return err
	}
	return m.commentRepo.UpdateCommentState(ctx, comment, prevState)
}
