package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/usecase"
)

func akismetComment() *entity.Comment {
	return &entity.Comment{
		ID:     1,
		Author: "Иван",
		Email:  "ivan@example.com",
		Text:   "Отличная конференция!",
	}
}

func TestAkismetScoreMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		proTip string
		want   int
	}{
		{"не спам", "false", "", usecase.SpamScoreHam},
		{"возможно спам", "true", "", usecase.SpamScorePossibleSpam},
		{"явный спам", "true", "discard", usecase.SpamScoreBlatantSpam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.proTip != "" {
					w.Header().Set("X-akismet-pro-tip", tt.proTip)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			checker := NewAkismetChecker(server.URL, "https://guestbook.example.com")
			score, err := checker.GetSpamScore(context.Background(), akismetComment(), map[string]string{"user_ip": "1.2.3.4"})
			require.NoError(t, err)
			require.Equal(t, tt.want, score)
		})
	}
}

func TestAkismetForwardsSignals(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		_, _ = w.Write([]byte("false"))
	}))
	defer server.Close()

	checker := NewAkismetChecker(server.URL, "https://guestbook.example.com")
	_, err := checker.GetSpamScore(context.Background(), akismetComment(), map[string]string{
		"user_ip":    "1.2.3.4",
		"user_agent": "curl/8.0",
	})
	require.NoError(t, err)

	require.Equal(t, "https://guestbook.example.com", gotForm["blog"])
	require.Equal(t, "Иван", gotForm["comment_author"])
	require.Equal(t, "Отличная конференция!", gotForm["comment_content"])
	require.Equal(t, "1.2.3.4", gotForm["user_ip"])
	require.Equal(t, "curl/8.0", gotForm["user_agent"])
}

func TestAkismetDebugHelpIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-akismet-debug-help", "Empty \"blog\" value")
		_, _ = w.Write([]byte("invalid"))
	}))
	defer server.Close()

	checker := NewAkismetChecker(server.URL, "")
	_, err := checker.GetSpamScore(context.Background(), akismetComment(), nil)
	require.Error(t, err)
}

func TestAkismetBadStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	checker := NewAkismetChecker(server.URL, "https://guestbook.example.com")
	_, err := checker.GetSpamScore(context.Background(), akismetComment(), nil)
	require.Error(t, err)
}
