package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"guestbook-backend/internal/delivery/http/utils"
	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/repo"
	"guestbook-backend/internal/usecase"
)

type Comment struct {
	commentUseCase usecase.Comment
}

func NewComment(commentUseCase usecase.Comment) *Comment {
	return &Comment{
		commentUseCase: commentUseCase,
	}
}

func (c *Comment) Configure(server *echo.Group) {
	server.POST("/add", c.SubmitComment)
	server.POST("/review", c.ReviewComment)
	server.GET("/last", c.GetLastComments)
}

func (c *Comment) SubmitComment(e echo.Context) error {
	request := &entity.SubmitCommentRequest{
		Author: e.FormValue("author"),
		Email:  e.FormValue("email"),
		Text:   e.FormValue("text"),
		// сигналы для спам-проверки в формате Akismet
		Context: map[string]string{
			"user_ip":    e.RealIP(),
			"user_agent": e.Request().UserAgent(),
			"referrer":   e.Request().Referer(),
			"permalink":  e.Request().URL.String(),
		},
	}

	if file, err := e.FormFile("photo"); err == nil {
		src, err := file.Open()
		if err != nil {
			return e.JSON(http.StatusBadRequest, echo.Map{
				"error": "Не удалось прочитать файл",
			})
		}
		defer func() { _ = src.Close() }()

		mtype, err := mimetype.DetectReader(src)
		if err != nil {
			return e.JSON(http.StatusBadRequest, echo.Map{
				"error": "Не удалось определить тип файла",
			})
		}
		if !strings.HasPrefix(mtype.String(), "image/") {
			return e.JSON(http.StatusBadRequest, echo.Map{
				"error": "Файл не является изображением",
			})
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return e.JSON(http.StatusInternalServerError, echo.Map{
				"error": err.Error(),
			})
		}

		request.Photo = src
		request.PhotoFilename = file.Filename
		request.PhotoSize = file.Size
		request.PhotoContentType = mtype.String()
	}

	commentID, err := c.commentUseCase.SubmitComment(e.Request().Context(), request)
	switch {
	case errors.Is(err, usecase.ErrInvalidComment):
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		return e.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return e.JSON(http.StatusOK, echo.Map{
		"status":     "ok",
		"comment_id": commentID,
	})
}

func (c *Comment) ReviewComment(e echo.Context) error {
	request := &entity.ReviewCommentRequest{}
	err := utils.ReadJSON(e, request)
	if err != nil {
		log.Infof("Ошибка при чтении JSON: %v", err)
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	err = c.commentUseCase.ReviewComment(e.Request().Context(), request)
	switch {
	case errors.Is(err, repo.ErrCommentNotFound):
		return e.JSON(http.StatusNotFound, echo.Map{
			"error": "Комментарий не найден",
		})
	case errors.Is(err, usecase.ErrReviewUnavailable):
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Комментарий не ожидает ручной модерации",
		})
	case err != nil:
		return e.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return e.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

func (c *Comment) GetLastComments(e echo.Context) error {
	request := &entity.GetLastCommentsRequest{}
	err := utils.ReadQuery(e, request)
	if err != nil {
		log.Infof("Ошибка при чтении query: %v", err)
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	if request.Limit <= 0 {
		request.Limit = 20
	}
	if request.Limit > 100 {
		request.Limit = 100
	}

	comments, err := c.commentUseCase.GetLastComments(e.Request().Context(), request.Limit)
	if err != nil {
		return e.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return e.JSON(http.StatusOK, echo.Map{
		"comments": comments,
	})
}
