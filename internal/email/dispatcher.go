package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/logging"
)

// Dispatcher renders a message kind and hands it to the configured transport.
// It is safe for concurrent use.
type Dispatcher struct {
	transport Transport
	tmpl      *renderer
	from      string
	fromName  string
	log       logging.Logger
	now       func() time.Time
}

func NewDispatcher(t Transport, from, fromName string, log logging.Logger) (*Dispatcher, error) {
	if t == nil {
		return nil, errors.New("email: nil transport")
	}
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Dispatcher{
		transport: t,
		tmpl:      r,
		from:      from,
		fromName:  fromName,
		log:       log.With("component", "email", "transport", t.Name()),
		now:       time.Now,
	}, nil
}

// Send renders kind for recipient, checks the transport is reachable and
// sends. Every failure is a *common.DeliveryError.
func (d *Dispatcher) Send(ctx context.Context, kind Kind, recipient string, data Data) (*Receipt, error) {
	fail := func(stage string, err error) error {
		return &common.DeliveryError{Kind: string(kind), Recipient: recipient, Stage: stage, Err: err}
	}

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, fail("send", errors.New("no recipient"))
	}

	now := d.now()
	subject, text, html, err := d.tmpl.render(kind, data, now)
	if err != nil {
		return nil, fail("render", err)
	}

	if err := d.transport.Verify(ctx); err != nil {
		return nil, fail("verify", err)
	}

	msg := &Message{
		ID:       newMessageID(d.from),
		From:     d.from,
		FromName: d.fromName,
		To:       recipient,
		Subject:  subject,
		Text:     text,
		HTML:     html,
	}
	id, err := d.transport.Send(ctx, msg)
	if err != nil {
		return nil, fail("send", err)
	}
	if id == "" {
		id = msg.ID
	}

	d.log.Info(ctx, "email sent", "kind", string(kind), "to", recipient, "message_id", id)
	return &Receipt{
		MessageID: id,
		Kind:      kind,
		Recipient: recipient,
		Transport: d.transport.Name(),
		SentAt:    now,
	}, nil
}

func newMessageID(from string) string {
	domain := "finmatch.local"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
