package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"guestbook-backend/internal/repo/cockroach"
	kafkarepo "guestbook-backend/internal/repo/kafka"
	miniorepo "guestbook-backend/internal/repo/minio"
	"guestbook-backend/internal/usecase/service"
	"guestbook-backend/pkg/connector"
	"guestbook-backend/pkg/goosehelper"
)

func init() {
	// Загружаем переменные окружения
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	// Выполнить миграции при старте
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	goosehelper.MigrateUp(DBConn.DB, "./cockroachdb/migrations")
	if err := DBConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	// Настройка контекста для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	kafkaBrokersStr := os.Getenv("KAFKA_BROKERS")
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	akismetAPIKey := os.Getenv("AKISMET_API_KEY")
	akismetBlog := os.Getenv("AKISMET_BLOG")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUsername := os.Getenv("SMTP_USERNAME")
	smtpPassword := os.Getenv("SMTP_PASSWORD")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	photoDir := os.Getenv("PHOTO_DIR")
	if photoDir == "" {
		photoDir = "./photos"
	}

	if dbConnectDSN == "" {
		log.Fatal("DB_CONNECT_DSN переменная окружения обязательна")
	}
	if kafkaBrokersStr == "" {
		log.Fatal("KAFKA_BROKERS переменная окружения обязательна")
	}
	if akismetAPIKey == "" {
		log.Fatal("AKISMET_API_KEY переменная окружения обязательна")
	}
	if adminEmail == "" {
		log.Fatal("ADMIN_EMAIL переменная окружения обязательна")
	}
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")

	smtpPort := 587
	if smtpPortStr != "" {
		parsedPort, err := strconv.Atoi(smtpPortStr)
		if err != nil {
			log.Fatalf("Неверный формат SMTP_PORT: %s", smtpPortStr)
		}
		smtpPort = parsedPort
	}

	// локальный каталог для оптимизации фотографий
	if err := os.MkdirAll(photoDir, 0o755); err != nil {
		log.Fatalf("Ошибка при создании каталога фотографий: %v", err)
	}

	// Подключение к базе данных
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := DBConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// Подключение к MinIO
	minioClient, err := connector.GetMinioConnector(minioEndpoint, minioAccessKey, minioSecretKey, false)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// Инициализация репозиториев
	commentRepo := cockroach.NewComment(DBConn)
	photoRepo, err := miniorepo.NewPhoto(minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Photo: %v", err)
	}
	moderationQueue, err := kafkarepo.NewModerationQueueKafkaRepository(kafkaBrokers)
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}

	// Инициализация коллабораторов конвейера
	spamChecker := service.NewAkismetChecker(service.AkismetEndpoint(akismetAPIKey), akismetBlog)
	mailer, err := service.NewSMTPMailer(smtpHost, smtpPort, smtpUsername, smtpPassword, adminEmail, adminEmail)
	if err != nil {
		log.Fatalf("Ошибка при создании SMTP-клиента: %v", err)
	}
	imageOptimizer := service.NewImageOptimizer()

	// Основной обработчик конвейера модерации
	moderationUseCase := service.NewModeration(
		commentRepo,
		photoRepo,
		moderationQueue,
		spamChecker,
		mailer,
		imageOptimizer,
		photoDir,
	)

	log.Info("Воркер модерации запущен")
	if err := moderationQueue.ConsumeCommentMessages(ctx, moderationUseCase.HandleCommentMessage); err != nil {
		log.Fatalf("Ошибка при чтении очереди модерации: %v", err)
	}
	log.Info("Воркер модерации остановлен")
}
