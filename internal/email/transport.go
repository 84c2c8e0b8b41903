package email

import "finmatch-backend/internal/config"

// NewTransport picks the one transport the process will use: Resend when an
// API key is configured, SMTP otherwise.
func NewTransport(cfg config.EmailConfig) Transport {
	if cfg.ResendAPIKey != "" {
		return NewResendTransport(cfg.ResendAPIKey, cfg.ResendProbeURL, nil)
	}
	return NewSMTPTransport(cfg)
}
