package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// CountryDirectory resolves country codes and names.
type CountryDirectory interface {
	Lookup(value string) (entity.Country, bool)
	All() []entity.Country
}

type ContactUsecase struct {
	mailer    provider.Mailer
	countries CountryDirectory
	supportTo string
	forbidden []string
	logger    *zap.Logger
}

// NewContactUsecase creates the contact form usecase
func NewContactUsecase(
	mailer provider.Mailer,
	countries CountryDirectory,
	supportTo string,
	forbidden []string,
	logger *zap.Logger,
) *ContactUsecase {
	words := make([]string, 0, len(forbidden))
	for _, w := range forbidden {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return &ContactUsecase{
		mailer:    mailer,
		countries: countries,
		supportTo: supportTo,
		forbidden: words,
		logger:    logger,
	}
}

// Countries lists the countries accepted by the forms.
func (u *ContactUsecase) Countries() []entity.Country {
	return u.countries.All()
}

// Submit forwards a contact message to support.
func (u *ContactUsecase) Submit(ctx context.Context, msg entity.ContactMessage) error {
	text := strings.ToLower(msg.Subject + "\n" + msg.Message)
	for _, w := range u.forbidden {
		if strings.Contains(text, w) {
			u.logger.Info("Contact message rejected", zap.String("email", msg.Email))
			return domainErrors.ErrForbiddenContent
		}
	}

	country := msg.Country
	if country != "" {
		c, ok := u.countries.Lookup(country)
		if !ok {
			return domainErrors.ErrUnknownCountry
		}
		country = c.Name
	}

	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nCountry: %s\nSkype: %s\n\n%s\n",
		msg.Name, msg.Email, msg.Phone, country, msg.SkypeID, msg.Message)

	return u.mailer.Send(ctx, provider.Mail{
		To:      u.supportTo,
		ReplyTo: msg.Email,
		Subject: "Contact: " + msg.Subject,
		Body:    body,
	})
}
