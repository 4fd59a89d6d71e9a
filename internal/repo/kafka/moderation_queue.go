package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/repo"
	"guestbook-backend/pkg/retry"
)

const (
	// ModerationTopic — единственный топик конвейера модерации: обработчик сам
	// переотправляет сообщение в тот же топик для следующей стадии
	ModerationTopic = "comment-moderation"
	// ConsumerGroup — общая группа воркеров модерации. Оффсет подтверждается
	// только после успешной обработки, поэтому доставка гарантируется хотя бы один раз
	ConsumerGroup = "moderation-worker"

	numPartitions     = 3
	replicationFactor = 1
)

type ModerationQueueKafkaRepository struct {
	writer  *kafka.Writer
	brokers []string
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(ctx context.Context, brokers []string, topic string) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	partitions, err := conn.ReadPartitions(topic)
	if err != nil && !errors.Is(err, kafka.UnknownTopicOrPartition) {
		return err
	}
	if len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
}

func NewModerationQueueKafkaRepository(brokers []string) (repo.ModerationQueue, error) {
	if len(brokers) == 0 {
		return nil, errors.New("не предоставлены брокеры Kafka")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := createTopicIfNotExists(ctx, brokers, ModerationTopic); err != nil {
		return nil, fmt.Errorf("ошибка при создании топика модерации: %w", err)
	}

	return &ModerationQueueKafkaRepository{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    ModerationTopic,
			Balancer: &kafka.LeastBytes{},
		},
		brokers: brokers,
	}, nil
}

func (r *ModerationQueueKafkaRepository) PublishCommentMessage(ctx context.Context, message *entity.CommentMessage) error {
	b, err := msgpack.Marshal(message)
	if err != nil {
		return err
	}

	// кратковременные сбои брокера переживаем повторными попытками: дубликаты
	// публикации безопасны, обработчик идемпотентен
	return retry.Retry(func() error {
		return r.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(strconv.Itoa(message.CommentID)),
			Value: b,
		})
	})
}

// moderationFetcher — минимальный срез kafka.Reader, используемый циклом потребления
type moderationFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

func (r *ModerationQueueKafkaRepository) ConsumeCommentMessages(ctx context.Context, handler func(ctx context.Context, message *entity.CommentMessage) error) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  r.brokers,
		Topic:    ModerationTopic,
		GroupID:  ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer func() { _ = reader.Close() }()

	return consumeLoop(ctx, reader, handler)
}

func consumeLoop(ctx context.Context, fetcher moderationFetcher, handler func(ctx context.Context, message *entity.CommentMessage) error) error {
	for {
		m, err := fetcher.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var message entity.CommentMessage
		if err := msgpack.Unmarshal(m.Value, &message); err != nil {
			// нечитаемое сообщение бесполезно передоставлять — подтверждаем и пропускаем
			log.Errorf("Некорректное сообщение модерации (offset %d): %v", m.Offset, err)
			if err := fetcher.CommitMessages(ctx, m); err != nil {
				return err
			}
			continue
		}

		// Повторяем обработку на месте, не продвигаясь дальше по партиции:
		// подтверждение любого более позднего оффсета той же партиции
		// неявно подтвердило бы и это сообщение
		if err := retry.Retry(func() error { return handler(ctx, &message) }); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// попытки исчерпаны: выходим без подтверждения оффсета, группа
			// продолжит с последнего подтвержденного и доставит сообщение повторно
			return fmt.Errorf("обработка сообщения модерации для комментария %d: %w", message.CommentID, err)
		}

		if err := fetcher.CommitMessages(ctx, m); err != nil {
			return err
		}
	}
}
