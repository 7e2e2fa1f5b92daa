package usecase

import (
	"context"
	"strings"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type ContactUC struct {
	Messages domain.ContactRepo
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit records a visitor message. This is the one unauthenticated write
// path, so validation is strict.
func (uc *ContactUC) Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	msg := strings.TrimSpace(in.Message)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("a valid email is required")
	}
	if msg == "" {
		return nil, domain.Invalid("message is required")
	}
	m := &domain.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Message: msg,
	}
	if err := uc.Messages.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (uc *ContactUC) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return uc.Messages.List(ctx)
}

func (uc *ContactUC) Delete(ctx context.Context, id uint) error {
	return uc.Messages.Delete(ctx, id)
}
