package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/usecase"
)

// AkismetChecker проверяет комментарии на спам через REST API Akismet
type AkismetChecker struct {
	endpoint string
	blog     string
	client   *http.Client
}

// AkismetEndpoint возвращает адрес метода comment-check для ключа API
func AkismetEndpoint(apiKey string) string {
	return fmt.Sprintf("https://%s.rest.akismet.com/1.1/comment-check", apiKey)
}

func NewAkismetChecker(endpoint string, blog string) usecase.SpamChecker {
	return &AkismetChecker{
		endpoint: endpoint,
		blog:     blog,
		client:   &http.Client{},
	}
}

func (a *AkismetChecker) GetSpamScore(ctx context.Context, comment *entity.Comment, signals map[string]string) (int, error) {
	form := url.Values{}
	form.Set("blog", a.blog)
	form.Set("comment_type", "comment")
	form.Set("comment_author", comment.Author)
	form.Set("comment_author_email", comment.Email)
	form.Set("comment_content", comment.Text)
	form.Set("blog_lang", "ru")
	form.Set("blog_charset", "UTF-8")
	// сигналы контекста отправки: user_ip, user_agent, referrer, permalink
	for key, value := range signals {
		form.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("akismet вернул статус %d", resp.StatusCode)
	}
	if help := resp.Header.Get("X-akismet-debug-help"); help != "" {
		return 0, fmt.Errorf("не удалось проверить комментарий: %s", help)
	}

	// явный спам сервис помечает заголовком pro-tip: discard
	if resp.Header.Get("X-akismet-pro-tip") == "discard" {
		return usecase.SpamScoreBlatantSpam, nil
	}
	if string(body) == "true" {
		return usecase.SpamScorePossibleSpam, nil
	}
	return usecase.SpamScoreHam, nil
}
