package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/pkg/mailer/templates"
)

// ErrNotConfigured is returned when no mail transport credentials are set.
var ErrNotConfigured = errors.New("mail transport not configured")

// Transport delivers a fully rendered message.
type Transport interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Publisher puts a job on a queue for the email worker.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Compose resolves the subject and bodies of job, rendering its template when one is set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errors.New("email job needs a template or a subject with text/html")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	subject, text, html, err = templates.Render(strings.ToLower(job.Template), job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", job.Template, err)
	}
	return strings.TrimSpace(subject), text, html, nil
}

// DirectDispatcher renders a job and hands it to a Transport in-process.
type DirectDispatcher struct {
	Transport  Transport
	Configured func() bool
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	if d.Transport == nil || (d.Configured != nil && !d.Configured()) {
		return ErrNotConfigured
	}
	subject, text, html, err := Compose(job)
	if err != nil {
		return err
	}
	return d.Transport.Send(ctx, job.To, subject, text, html)
}

// QueueDispatcher publishes jobs for cmd/email_worker to render and send.
type QueueDispatcher struct {
	Pub Publisher
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	if d.Pub == nil {
		return ErrNotConfigured
	}
	if _, _, _, err := Compose(job); err != nil {
		return err
	}
	return d.Pub.PublishJSON(ctx, job)
}

// LogDispatcher renders jobs and logs them instead of sending. Used when MAIL_SEND_ENABLED=false.
type LogDispatcher struct {
	Logger *logrus.Logger
}

func (d *LogDispatcher) Dispatch(_ context.Context, job EmailJob) error {
	subject, text, _, err := Compose(job)
	if err != nil {
		return err
	}
	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{"to": job.To, "subject": subject}).Debug(text)
		d.Logger.WithField("to", job.To).Info("mail sending disabled; message logged only")
	}
	return nil
}
