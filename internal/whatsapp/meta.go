package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MetaProvider implements WhatsApp via the Meta Cloud API (works with any BSP)
type MetaProvider struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

// NewMetaProvider takes the access token from Meta Business Suite and the
// WhatsApp Business phone number id.
func NewMetaProvider(accessToken, phoneNumberID string) *MetaProvider {
	return &MetaProvider{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       "https://graph.facebook.com/v18.0",
		client:        defaultClient(),
	}
}

// SetBaseURL allows overriding the API base URL (for BSP proxies)
func (p *MetaProvider) SetBaseURL(u string) {
	p.baseURL = strings.TrimRight(u, "/")
}

func (p *MetaProvider) Name() string {
	return "meta"
}

// SendMessage sends a free-form text message; it is only delivered inside
// the 24 hour customer service window.
func (p *MetaProvider) SendMessage(ctx context.Context, to, body string) (MessageResult, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                strings.TrimPrefix(to, "+"),
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": true,
			"body":        body,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return MessageResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", p.baseURL, p.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return MessageResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return MessageResult{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := string(data)
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return MessageResult{}, &APIError{Provider: "WhatsApp", StatusCode: resp.StatusCode, Message: msg}
	}

	var out struct {
		Messages []struct {
			ID            string `json:"id"`
			MessageStatus string `json:"message_status"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return MessageResult{}, fmt.Errorf("failed to decode response: %w", err)
	}
	result := MessageResult{Status: "accepted"}
	if len(out.Messages) > 0 {
		result.ID = out.Messages[0].ID
		if out.Messages[0].MessageStatus != "" {
			result.Status = out.Messages[0].MessageStatus
		}
	}
	return result, nil
}
