// Package email renders and delivers the transactional mail sent on signup:
// the confirmation to the person who signed up and the alert to the operator
// mailbox.
package email

import (
	"context"
	"time"

	"finmatch-backend/internal/models"
)

type Kind string

const (
	KindTrialConfirmation        Kind = "trial_confirmation"
	KindSubscriptionConfirmation Kind = "subscription_confirmation"
	KindAdminNotification        Kind = "admin_notification"
)

// ConfirmationKind picks the user confirmation matching a signup path.
func ConfirmationKind(s models.SignupKind) Kind {
	if s == models.SignupSubscription {
		return KindSubscriptionConfirmation
	}
	return KindTrialConfirmation
}

// Message is a rendered email ready for a transport.
type Message struct {
	ID       string
	From     string
	FromName string
	To       string
	Subject  string
	Text     string
	HTML     string
}

// Transport delivers messages. Verify checks the transport can be reached
// and authenticated against without sending anything.
type Transport interface {
	Name() string
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg *Message) (string, error)
}

// Data is what the templates are rendered from.
type Data struct {
	Signup  models.SignupKind
	Profile *models.UserProfile
}

// Receipt records an accepted message.
type Receipt struct {
	MessageID string
	Kind      Kind
	Recipient string
	Transport string
	SentAt    time.Time
}
