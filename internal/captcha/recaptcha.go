// Package captcha is the bot-verification collaborator boundary. The engine
// only depends on the Verifier contract; the shipped implementation talks to
// the reCAPTCHA siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// ErrVerificationFailed marks a token the verification service rejected.
var ErrVerificationFailed = errors.New("captcha verification failed")

// Verifier checks that a request originates from a human.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// Client verifies tokens against the reCAPTCHA API.
type Client struct {
	secret     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

// New creates a reCAPTCHA client with the given shared secret.
func New(secret string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		secret: secret,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIURL: siteVerifyURL,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the verification endpoint and returns
// ErrVerificationFailed when the service rejects it.
func (c *Client) Verify(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is empty", ErrVerificationFailed)
	}

	form := url.Values{
		"secret":   {c.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("captcha verification request", zap.String("url", c.APIURL))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("captcha service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha service bad status: %s", resp.Status)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding captcha service response: %w", err)
	}

	if !result.Success {
		if len(result.ErrorCodes) > 0 {
			return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(result.ErrorCodes, ", "))
		}
		return ErrVerificationFailed
	}

	return nil
}
