package whatsapp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

// Provider sends a WhatsApp text message to a normalized number.
type Provider interface {
	SendMessage(ctx context.Context, to, body string) (MessageResult, error)
	Name() string
}

// MessageResult is what the provider reported for an accepted message.
type MessageResult struct {
	ID     string `json:"sid"`
	Status string `json:"status"`
}

// APIError is a non-2xx response from a provider API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Provider + " API error: " + e.Message
}

func defaultClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// NewProvider builds the configured provider, or nil when WhatsApp is not set up.
func NewProvider(cfg *config.Config) Provider {
	wa := cfg.WhatsApp
	switch strings.ToLower(wa.Provider) {
	case "twilio":
		if wa.AccountSID == "" || wa.AuthToken == "" {
			return nil
		}
		p := NewTwilioProvider(wa.AccountSID, wa.AuthToken, wa.From)
		if wa.BaseURL != "" {
			p.SetBaseURL(wa.BaseURL)
		}
		return p
	case "meta", "cloud", "generic":
		if wa.AccessToken == "" || wa.PhoneNumberID == "" {
			return nil
		}
		p := NewMetaProvider(wa.AccessToken, wa.PhoneNumberID)
		if wa.BaseURL != "" {
			p.SetBaseURL(wa.BaseURL)
		}
		return p
	default:
		// Twilio credentials alone are enough to enable sending
		if wa.AccountSID != "" && wa.AuthToken != "" {
			return NewTwilioProvider(wa.AccountSID, wa.AuthToken, wa.From)
		}
		return nil
	}
}

// NormalizePhone keeps digits and '+' and requires an international number
// of at least 10 characters including the leading '+'.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, c := range phone {
		if (c >= '0' && c <= '9') || c == '+' {
			b.WriteRune(c)
		}
	}
	cleaned := b.String()
	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + cleaned
	}
	if len(cleaned) < 10 {
		return "", models.Validation("invalid phone number format")
	}
	return cleaned, nil
}
