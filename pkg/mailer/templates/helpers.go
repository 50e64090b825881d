package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithDescription(desc string) Option {
	return func(d *EmailData) { d.Description = strings.TrimSpace(desc) }
}

// WithDueDate renders the due date as a calendar day in its own location.
func WithDueDate(t *time.Time) Option {
	return func(d *EmailData) {
		if t != nil && !t.IsZero() {
			d.DueDate = t.Format("Monday, 02 January 2006")
		}
	}
}

func WithAppName(name string) Option { return func(d *EmailData) { d.AppName = name } }

// NewTodoEmailData fills the recipient and todo fields for typ, then applies opts.
func NewTodoEmailData(typ, name, email, todoID, title string, opts ...Option) EmailData {
	d := EmailData{
		Name:   name,
		Email:  email,
		Type:   typ,
		TodoID: todoID,
		Title:  title,
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}
