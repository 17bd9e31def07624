package mailer

import (
	"errors"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"
)

var (
	// ErrSend возвращается при ошибке отправки письма
	ErrSend = errors.New("mailer: failed to send email")
)

// Attachment вложение письма
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Mailer отправляет письма через SMTP
// Относительно корректности state machine оплаты - fire-and-forget:
// сбой отправки репортится, но не влияет на статус бронирования
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    Logger
}

// New создает новый экземпляр mailer'а
func New(host string, port int, username, password, from string, log Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

// Send отправляет письмо с вложениями
func (m *Mailer) Send(to, subject, htmlBody string, attachments []Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	for _, att := range attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		msg.Attach(att.Filename, settings...)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("Mailer: failed to send email to=%s subject=%q: %v", to, subject, err)
		return fmt.Errorf("%w: to=%s: %v", ErrSend, to, err)
	}

	m.log.Info("Mailer: email sent to=%s subject=%q", to, subject)
	return nil
}
