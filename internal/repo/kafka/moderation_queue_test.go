package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"guestbook-backend/internal/entity"
)

// fakeFetcher отдает подготовленные сообщения и запоминает подтвержденные оффсеты
type fakeFetcher struct {
	messages  []kafka.Message
	pos       int
	committed []int64
}

func (f *fakeFetcher) FetchMessage(context.Context) (kafka.Message, error) {
	if f.pos >= len(f.messages) {
		// сообщения закончились — имитируем остановку воркера
		return kafka.Message{}, context.Canceled
	}
	m := f.messages[f.pos]
	f.pos++
	return m, nil
}

func (f *fakeFetcher) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func moderationMessage(t *testing.T, commentID int, offset int64) kafka.Message {
	t.Helper()
	b, err := msgpack.Marshal(&entity.CommentMessage{
		CommentID: commentID,
		Context:   map[string]string{"user_ip": "1.2.3.4"},
	})
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func TestConsumeLoopCommitsAfterSuccess(t *testing.T) {
	fetcher := &fakeFetcher{messages: []kafka.Message{
		moderationMessage(t, 1, 5),
		moderationMessage(t, 2, 6),
	}}

	var handled []int
	err := consumeLoop(context.Background(), fetcher, func(_ context.Context, message *entity.CommentMessage) error {
		handled = append(handled, message.CommentID)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, handled)
	// каждый оффсет подтвержден после успешной обработки
	require.Equal(t, []int64{5, 6}, fetcher.committed)
}

func TestConsumeLoopDoesNotCommitOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{messages: []kafka.Message{
		moderationMessage(t, 1, 5),
		moderationMessage(t, 2, 6),
	}}

	calls := 0
	err := consumeLoop(context.Background(), fetcher, func(context.Context, *entity.CommentMessage) error {
		calls++
		return errors.New("akismet недоступен")
	})
	// попытки исчерпаны — цикл завершается ошибкой, не продвигаясь по партиции:
	// подтверждение следующего оффсета неявно подтвердило бы и упавшее сообщение
	require.Error(t, err)
	require.Greater(t, calls, 1)
	require.Empty(t, fetcher.committed)
	// следующее сообщение не обрабатывалось
	require.Equal(t, 1, fetcher.pos)
}

func TestConsumeLoopRetriesInPlace(t *testing.T) {
	fetcher := &fakeFetcher{messages: []kafka.Message{
		moderationMessage(t, 1, 5),
	}}

	calls := 0
	err := consumeLoop(context.Background(), fetcher, func(context.Context, *entity.CommentMessage) error {
		calls++
		if calls == 1 {
			return errors.New("временный сбой")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	// после успешной повторной попытки оффсет подтвержден
	require.Equal(t, []int64{5}, fetcher.committed)
}

func TestConsumeLoopSkipsMalformedMessage(t *testing.T) {
	fetcher := &fakeFetcher{messages: []kafka.Message{
		{Offset: 5, Value: []byte("не msgpack")},
		moderationMessage(t, 2, 6),
	}}

	var handled []int
	err := consumeLoop(context.Background(), fetcher, func(_ context.Context, message *entity.CommentMessage) error {
		handled = append(handled, message.CommentID)
		return nil
	})
	require.NoError(t, err)
	// нечитаемое сообщение подтверждено и пропущено, обработано только валидное
	require.Equal(t, []int{2}, handled)
	require.Equal(t, []int64{5, 6}, fetcher.committed)
}
