package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	delivery "guestbook-backend/internal/delivery/http"
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
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	kafkaBrokersStr := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokersStr == "" {
		log.Fatal("KAFKA_BROKERS переменная окружения обязательна")
	}
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	serverAddr := os.Getenv("GATEWAY_ADDR")
	if serverAddr == "" {
		serverAddr = "0.0.0.0:8080"
	}

	// cockroach
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := DBConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// minio
	minioClient, err := connector.GetMinioConnector(minioEndpoint, minioAccessKey, minioSecretKey, false)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// репозитории
	commentRepo := cockroach.NewComment(DBConn)
	photoRepo, err := miniorepo.NewPhoto(minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Photo: %v", err)
	}
	moderationQueue, err := kafkarepo.NewModerationQueueKafkaRepository(kafkaBrokers)
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}

	// бизнес-логика
	commentUseCase := service.NewComment(commentRepo, photoRepo, moderationQueue)

	// delivery
	commentDelivery := delivery.NewComment(commentUseCase)

	// REST API
	echoServer := echo.New()
	// Не более 10 МБ
	echoServer.Use(middleware.BodyLimit("10M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())
	// CORS
	echoServer.Use(middleware.CORS())

	// Endpoints
	api := echoServer.Group("/api")
	comments := api.Group("/comment")
	commentDelivery.Configure(comments)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(10)*time.Second,
	)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
