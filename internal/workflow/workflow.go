package workflow

import (
	"errors"
	"fmt"

	"guestbook-backend/internal/entity"
)

// ErrIllegalTransition возвращается при попытке применить переход,
// недопустимый из текущего состояния комментария.
var ErrIllegalTransition = errors.New("недопустимый переход воркфлоу")

// Transition — именованный переход между состояниями. To может быть пустым:
// такой переход не меняет состояние (петля из нескольких исходных состояний).
type Transition struct {
	Name string
	From []entity.CommentState
	To   entity.CommentState
	// Guard — дополнительное условие допустимости помимо совпадения исходного состояния
	Guard func(*entity.Comment) bool
	// OnApply — побочный эффект, выполняемый при применении перехода
	OnApply func(*entity.Comment)
}

// Definition — неизменяемая таблица переходов. Создаётся один раз на процесс
// и разделяется всеми комментариями и всеми конкурентными обработчиками.
type Definition struct {
	transitions map[string]Transition
}

func NewDefinition(transitions ...Transition) *Definition {
	table := make(map[string]Transition, len(transitions))
	for _, t := range transitions {
		table[t.Name] = t
	}
	return &Definition{transitions: table}
}

// Can проверяет, допустим ли переход name из текущего состояния комментария.
// Чистый предикат без побочных эффектов.
func (d *Definition) Can(comment *entity.Comment, name string) bool {
	transition, ok := d.transitions[name]
	if !ok {
		return false
	}
	fromMatches := false
	for _, from := range transition.From {
		if comment.State == from {
			fromMatches = true
			break
		}
	}
	if !fromMatches {
		return false
	}
	if transition.Guard != nil && !transition.Guard(comment) {
		return false
	}
	return true
}

// Apply применяет переход: меняет состояние комментария и выполняет привязанный
// побочный эффект. Запись в базу остаётся за вызывающей стороной и должна
// произойти в той же единице работы.
func (d *Definition) Apply(comment *entity.Comment, name string) error {
	if !d.Can(comment, name) {
		return fmt.Errorf("%w: %q из состояния %q", ErrIllegalTransition, name, comment.State)
	}
	transition := d.transitions[name]
	if transition.To != "" {
		comment.State = transition.To
	}
	if transition.OnApply != nil {
		transition.OnApply(comment)
	}
	return nil
}
