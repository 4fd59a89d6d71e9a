package workflow

import "guestbook-backend/internal/entity"

const (
	TransitionAccept      = "accept"
	TransitionRejectSpam  = "reject_spam"
	TransitionMightBeSpam = "might_be_spam"
	TransitionPublish     = "publish"
	TransitionPublishHam  = "publish_ham"
	TransitionReject      = "reject"
	TransitionRejectHam   = "reject_ham"
	TransitionOptimize    = "optimize"
)

// CommentModeration возвращает граф состояний модерации комментариев.
//
//	submitted -> ham | spam | potential_spam   (автоматическая проверка на спам)
//	ham -> published | rejected                (ручная модерация)
//	potential_spam -> published_ham | rejected (ручная модерация)
//	optimize — петля: оптимизация фотографии без смены состояния
func CommentModeration() *Definition {
	return NewDefinition(
		Transition{
			Name: TransitionAccept,
			From: []entity.CommentState{entity.CommentStateSubmitted},
			To:   entity.CommentStateHam,
		},
		Transition{
			Name: TransitionRejectSpam,
			From: []entity.CommentState{entity.CommentStateSubmitted},
			To:   entity.CommentStateSpam,
		},
		Transition{
			Name: TransitionMightBeSpam,
			From: []entity.CommentState{entity.CommentStateSubmitted},
			To:   entity.CommentStatePotentialSpam,
		},
		Transition{
			Name: TransitionPublish,
			From: []entity.CommentState{entity.CommentStateHam},
			To:   entity.CommentStatePublished,
		},
		Transition{
			Name: TransitionPublishHam,
			From: []entity.CommentState{entity.CommentStatePotentialSpam},
			To:   entity.CommentStatePublishedHam,
		},
		Transition{
			Name: TransitionReject,
			From: []entity.CommentState{entity.CommentStateHam},
			To:   entity.CommentStateRejected,
		},
		Transition{
			Name: TransitionRejectHam,
			From: []entity.CommentState{entity.CommentStatePotentialSpam},
			To:   entity.CommentStateRejected,
		},
		Transition{
			Name: TransitionOptimize,
			From: []entity.CommentState{
				entity.CommentStateHam,
				entity.CommentStatePublished,
				entity.CommentStatePublishedHam,
			},
			Guard: func(c *entity.Comment) bool {
				return c.HasPhoto() && !c.PhotoOptimized
			},
			OnApply: func(c *entity.Comment) {
				c.PhotoOptimized = true
			},
		},
	)
}
