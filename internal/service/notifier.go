package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"oragh/backend/config"
	"oragh/backend/internal/model"
	"oragh/backend/pkg/mailer"
)

// Notifier sends account lifecycle emails. Delivery failures are logged and
// never returned to the caller.
type Notifier interface {
	RegistrationReceived(ctx context.Context, user *model.User, instrument, token string)
	AccountActivated(ctx context.Context, user *model.User)
	AccountRejected(ctx context.Context, user *model.User)
}

type mailNotifier struct {
	sender     mailer.Sender
	siteName   string
	frontend   string
	adminEmail string
	logger     *zap.Logger
}

// NewNotifier creates a Notifier on top of a mail transport.
func NewNotifier(sender mailer.Sender, cfg *config.Config, logger *zap.Logger) Notifier {
	return &mailNotifier{
		sender:     sender,
		siteName:   cfg.App.SiteName,
		frontend:   strings.TrimRight(cfg.App.FrontendURL, "/"),
		adminEmail: cfg.Mail.AdminEmail,
		logger:     logger,
	}
}

// ActivationURL is the frontend page an administrator opens to approve an account.
func ActivationURL(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/activate/" + token
}

func (n *mailNotifier) RegistrationReceived(ctx context.Context, user *model.User, instrument, token string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Nowa rejestracja w serwisie %s.\n\n", n.siteName)
	fmt.Fprintf(&b, "Imię i nazwisko: %s %s\n", user.FirstName, user.LastName)
	fmt.Fprintf(&b, "Nazwa użytkownika: %s\n", user.Username)
	fmt.Fprintf(&b, "Email: %s\n", user.Email)
	fmt.Fprintf(&b, "Instrument: %s\n\n", instrument)
	fmt.Fprintf(&b, "Aby aktywować lub odrzucić konto, otwórz: %s\n", ActivationURL(n.frontend, token))

	n.send(ctx, "registration", mailer.Message{
		To:      []string{n.adminEmail},
		Subject: fmt.Sprintf("[%s] Nowa rejestracja - %s %s", n.siteName, user.FirstName, user.LastName),
		Text:    b.String(),
	})
}

func (n *mailNotifier) AccountActivated(ctx context.Context, user *model.User) {
	text := fmt.Sprintf("Cześć %s,\n\nTwoje konto w serwisie %s zostało aktywowane.\nMożesz się zalogować: %s/login\n",
		user.FirstName, n.siteName, n.frontend)
	n.send(ctx, "activated", mailer.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("[%s] Twoje konto zostało aktywowane!", n.siteName),
		Text:    text,
	})
}

func (n *mailNotifier) AccountRejected(ctx context.Context, user *model.User) {
	text := fmt.Sprintf("Cześć %s,\n\nTwoja rejestracja w serwisie %s nie została zaakceptowana.\n",
		user.FirstName, n.siteName)
	n.send(ctx, "rejected", mailer.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("[%s] Informacja o rejestracji", n.siteName),
		Text:    text,
	})
}

func (n *mailNotifier) send(ctx context.Context, kind string, msg mailer.Message) {
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("notification not delivered",
			zap.String("kind", kind),
			zap.Strings("to", msg.To),
			zap.Error(err),
		)
	}
}
