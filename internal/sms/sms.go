package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/config"
)

// Gateway dispatches a text message to a phone number. Implementations
// must be bounded by a timeout; a failed send returns an error and leaves
// no partial state behind.
type Gateway interface {
	Send(ctx context.Context, phone, message string) error
}

// HTTPGateway posts messages to an external SMS provider.
type HTTPGateway struct {
	url    string
	apiKey string
	sender string
	client *http.Client
	logger *zerolog.Logger
}

func NewHTTPGateway(cfg config.SMSConfig, logger *zerolog.Logger) *HTTPGateway {
	return &HTTPGateway{
		url:    cfg.GatewayURL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

func (g *HTTPGateway) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"to":   phone,
		"from": g.sender,
		"body": message,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	g.logger.Debug().Str("phone", phone).Msg("sms dispatched")
	return nil
}

// ConsoleGateway logs instead of sending. Used in development.
type ConsoleGateway struct {
	logger *zerolog.Logger
}

func NewConsoleGateway(logger *zerolog.Logger) *ConsoleGateway {
	return &ConsoleGateway{logger: logger}
}

func (g *ConsoleGateway) Send(ctx context.Context, phone, message string) error {
	g.logger.Info().Str("phone", phone).Str("message", message).Msg("sms (console)")
	return nil
}

// New picks the gateway implementation configured for the environment.
func New(cfg config.SMSConfig, logger *zerolog.Logger) Gateway {
	if cfg.Provider == "http" {
		return NewHTTPGateway(cfg, logger)
	}
	return NewConsoleGateway(logger)
}
