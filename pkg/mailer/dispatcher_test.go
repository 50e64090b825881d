package mailer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/pkg/mailer/templates"
)

type stubTransport struct {
	err                     error
	to, subject, text, html string
}

func (s *stubTransport) Send(_ context.Context, to, subject, text, html string) error {
	s.to, s.subject, s.text, s.html = to, subject, text, html
	return s.err
}

type stubPublisher struct {
	published []any
	err       error
}

func (p *stubPublisher) PublishJSON(_ context.Context, body any) error {
	p.published = append(p.published, body)
	return p.err
}

func createdJob() EmailJob {
	data := templates.NewTodoEmailData(templates.TodoCreated, "Ann", "ann@example.com", "t1", "Buy milk")
	return EmailJob{To: "ann@example.com", Template: "TODO_CREATED", Data: templates.ToMap(data)}
}

func TestCompose(t *testing.T) {
	subject, text, _, err := Compose(createdJob())
	require.NoError(t, err)
	assert.Equal(t, "New Todo Added", subject)
	assert.Contains(t, text, "Buy milk")

	subject, text, html, err := Compose(EmailJob{To: "a@b.c", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)

	_, _, _, err = Compose(EmailJob{Subject: "Hi", Text: "body"})
	assert.Error(t, err)
	_, _, _, err = Compose(EmailJob{To: "a@b.c"})
	assert.Error(t, err)
}

func TestDirectDispatcher(t *testing.T) {
	tr := &stubTransport{}
	d := &DirectDispatcher{Transport: tr, Configured: func() bool { return true }}
	require.NoError(t, d.Dispatch(context.Background(), createdJob()))
	assert.Equal(t, "ann@example.com", tr.to)
	assert.Equal(t, "New Todo Added", tr.subject)

	tr.err = errors.New("boom")
	assert.EqualError(t, d.Dispatch(context.Background(), createdJob()), "boom")

	off := &DirectDispatcher{Transport: tr, Configured: func() bool { return false }}
	assert.ErrorIs(t, off.Dispatch(context.Background(), createdJob()), ErrNotConfigured)
}

func TestDirectDispatcherWithUnconfiguredMailgun(t *testing.T) {
	mg := NewMailgun("", "", "", 0)
	d := &DirectDispatcher{Transport: mg, Configured: mg.Configured}
	assert.ErrorIs(t, d.Dispatch(context.Background(), createdJob()), ErrNotConfigured)
}

func TestQueueDispatcher(t *testing.T) {
	pub := &stubPublisher{}
	d := &QueueDispatcher{Pub: pub}
	require.NoError(t, d.Dispatch(context.Background(), createdJob()))
	require.Len(t, pub.published, 1)

	err := d.Dispatch(context.Background(), EmailJob{To: "a@b.c", Template: "nope"})
	assert.Error(t, err)
	assert.Len(t, pub.published, 1, "unrenderable jobs are not queued")

	assert.ErrorIs(t, (&QueueDispatcher{}).Dispatch(context.Background(), createdJob()), ErrNotConfigured)
}

func TestLogDispatcher(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	assert.NoError(t, (&LogDispatcher{Logger: l}).Dispatch(context.Background(), createdJob()))
}
