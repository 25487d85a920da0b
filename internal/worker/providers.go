package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider sends one SMS and returns the provider's message
// reference when it has one.
type Provider interface {
	Send(ctx context.Context, message, recipient string) (string, error)
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func NewProvider(kind string, twilio TwilioConfig) Provider {
	switch kind {
	case "", "stub", "log":
		return logProvider{}
	case "noop":
		return noopProvider{}
	case "fail":
		return failProvider{}
	case "twilio":
		if twilio.AccountSID == "" || twilio.AuthToken == "" || twilio.FromNumber == "" {
			log.Printf("twilio credentials incomplete, using log provider")
			return logProvider{}
		}
		return &twilioProvider{
			config: twilio,
			client: &http.Client{Timeout: 10 * time.Second},
		}
	default:
		if strings.HasPrefix(kind, "http://") || strings.HasPrefix(kind, "https://") {
			return webhookProvider{url: kind, client: &http.Client{Timeout: 5 * time.Second}}
		}
		return logProvider{}
	}
}

type logProvider struct{}

func (logProvider) Send(ctx context.Context, message, recipient string) (string, error) {
	log.Printf("send sms to %s: %s", recipient, message)
	return "", nil
}

type noopProvider struct{}

func (noopProvider) Send(ctx context.Context, message, recipient string) (string, error) {
	return "", nil
}

type failProvider struct{}

func (failProvider) Send(ctx context.Context, message, recipient string) (string, error) {
	return "", errors.New("provider failure")
}

type webhookProvider struct {
	url    string
	client *http.Client
}

func (p webhookProvider) Send(ctx context.Context, message, recipient string) (string, error) {
	payload := map[string]string{
		"recipient": recipient,
		"message":   message,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider rejected request: %d", resp.StatusCode)
	}
	return "", nil
}

type twilioProvider struct {
	config TwilioConfig
	client *http.Client
}

func (p *twilioProvider) Send(ctx context.Context, message, recipient string) (string, error) {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", p.config.AccountSID)

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", p.config.FromNumber)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.config.AccountSID, p.config.AuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Sid string `json:"sid"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	return result.Sid, nil
}
