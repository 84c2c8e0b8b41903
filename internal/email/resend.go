package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendTransport sends through the Resend HTTP API.
type ResendTransport struct {
	client   *resend.Client
	http     *http.Client
	probeURL string
}

func NewResendTransport(apiKey, probeURL string, httpClient *http.Client) *ResendTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ResendTransport{
		client:   resend.NewCustomClient(httpClient, apiKey),
		http:     httpClient,
		probeURL: probeURL,
	}
}

func (t *ResendTransport) Name() string { return "resend" }

// Verify checks the API endpoint answers. Any HTTP response counts; only a
// network failure does not.
func (t *ResendTransport) Verify(ctx context.Context) error {
	if t.client.ApiKey == "" {
		return errors.New("resend api key not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.probeURL, nil)
	if err != nil {
		return err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("resend unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (t *ResendTransport) Send(ctx context.Context, msg *Message) (string, error) {
	from := mail.Address{Name: msg.FromName, Address: msg.From}
	params := &resend.SendEmailRequest{
		From:    from.String(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := t.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	return sent.Id, nil
}
