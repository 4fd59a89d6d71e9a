package service

import (
	"context"
	"strings"
	"text/template"

	"github.com/wneessen/go-mail"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/usecase"
)

const reviewMailSubject = "Новый комментарий ожидает модерации"

const reviewMailTemplate = `Автор: {{.Author}} ({{.Email}})
Состояние: {{.State}}

{{.Text}}

Примите или отклоните комментарий в панели модерации.
`

var reviewMail = template.Must(template.New("review").Parse(reviewMailTemplate))

// SMTPMailer отправляет модератору письма о комментариях, ожидающих решения
type SMTPMailer struct {
	client     *mail.Client
	from       string
	adminEmail string
}

func NewSMTPMailer(host string, port int, username, password, from, adminEmail string) (usecase.Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(port),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{
		client:     client,
		from:       from,
		adminEmail: adminEmail,
	}, nil
}

func (m *SMTPMailer) SendCommentReviewRequest(ctx context.Context, comment *entity.Comment) error {
	body, err := renderReviewMail(comment)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(m.adminEmail); err != nil {
		return err
	}
	msg.Subject(reviewMailSubject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

func renderReviewMail(comment *entity.Comment) (string, error) {
	var body strings.Builder
	if err := reviewMail.Execute(&body, comment); err != nil {
		return "", err
	}
	return body.String(), nil
}
