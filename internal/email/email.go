// Package email sends transactional mail through the Elastic Email HTTP API.
// The HTTP API is used instead of SMTP. Raw tokens are never passed in; callers
// embed them in the URLs they hand over.
package email

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skyview-tv/skyview/internal/config"
	"github.com/skyview-tv/skyview/internal/logger"
)

const apiURL = "https://api.elasticemail.com/v2/email/send"

// Sender delivers transactional email. Implemented by the Elastic Email
// client; tests substitute a recording fake.
type Sender interface {
	SendVerification(toEmail, displayName, verifyURL string) error
	SendPasswordReset(toEmail, displayName, resetURL string) error
}

// Client is the Elastic Email implementation of Sender
type Client struct {
	apiKey string
	from   string
	http   *http.Client
}

// NewClient creates a new Elastic Email client from configuration
func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		from:   cfg.From,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendVerification sends a verification link. verifyURL carries the token;
// it is not logged here.
func (c *Client) SendVerification(toEmail, displayName, verifyURL string) error {
	subject := "Verify your SkyView email"
	body := fmt.Sprintf(`Hello %s,

Welcome to SkyView! Please verify your email address to get started.

Click the link below to verify your email:
%s

This link expires in 24 hours.

If you didn't create a SkyView account, you can safely ignore this email.

The SkyView Team`, displayName, verifyURL)

	return c.send(toEmail, subject, body)
}

// SendPasswordReset sends a password reset link. resetURL carries the token;
// it is not logged here.
func (c *Client) SendPasswordReset(toEmail, displayName, resetURL string) error {
	subject := "Reset your SkyView password"
	body := fmt.Sprintf(`Hello %s,

We received a request to reset your SkyView password.

Click the link below to set a new password:
%s

This link expires in 1 hour. If you didn't request a password reset, no action is needed.

The SkyView Team`, displayName, resetURL)

	return c.send(toEmail, subject, body)
}

// send posts to the Elastic Email API. The API key goes in the form body and
// is never logged.
func (c *Client) send(toEmail, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("email API key not configured")
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("from", c.from)
	params.Set("to", toEmail)
	params.Set("subject", subject)
	params.Set("bodyText", body)
	params.Set("isTransactional", "true")

	resp, err := c.http.Post(apiURL, "application/x-www-form-urlencoded",
		strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API error %d: %s", resp.StatusCode, string(respBody))
	}

	logger.Log.Debug().Str("subject", subject).Msg("Email sent")
	return nil
}
