package portfolio

import (
	"context"
	"time"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
)

// ContactForm is a public contact submission.
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

// SubmitContact validates f and stores it as an unread message stamped with
// now(). Invalid submissions never reach the store.
func SubmitContact(ctx context.Context, s store.Store, f ContactForm, now func() time.Time) (string, error) {
	f = ContactForm{Name: trim(f.Name), Email: trim(f.Email), Subject: trim(f.Subject), Message: trim(f.Message)}
	if err := check(f); err != nil {
		return "", err
	}
	if now == nil {
		now = time.Now
	}
	msg := content.Message{
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		CreatedAt: now().UTC().Format(content.TimestampLayout),
		Read:      false,
	}
	id, err := s.Create(ctx, content.MessagesCollection, msg.Fields())
	if err != nil {
		return "", errs.Write("create messages", err)
	}
	return id, nil
}
