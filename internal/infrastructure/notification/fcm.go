// Package notification delivers push notifications through FCM. Dispatch is
// fire-and-forget: failures are logged by callers and never fail the primary
// operation.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const fcmEndpoint = "https://fcm.googleapis.com/fcm/send"

// Notifier is the push channel consumed by the use cases.
type Notifier interface {
	Notify(ctx context.Context, token, title, body string, data map[string]string) error
}

type FCMClient struct {
	httpClient *http.Client
	serverKey  string
	endpoint   string
	logger     *zap.Logger
}

func NewFCMClient(serverKey string, logger *zap.Logger) *FCMClient {
	return &FCMClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		serverKey:  serverKey,
		endpoint:   fcmEndpoint,
		logger:     logger,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *FCMClient) Notify(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return nil
	}

	payload, err := json.Marshal(fcmMessage{
		To:           token,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("fcm responded with status %d", resp.StatusCode)
	}
	return nil
}

// Noop is used when no FCM server key is configured.
type Noop struct{}

func (Noop) Notify(_ context.Context, _, _, _ string, _ map[string]string) error {
	return nil
}
