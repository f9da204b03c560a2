// Package notify provides a lightweight client for the notification service
// that delivers winner, contributor, and shipping emails. The drawing engine
// decides when a notification is due; delivery is this service's problem.
// Uses raw HTTP calls (no SDK) to minimize external dependencies.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind tags the lifecycle stage a message belongs to.
type Kind string

const (
	// KindWinner tells a donor they have won and how to accept or decline.
	KindWinner Kind = "winner"
	// KindContributor tells a prize contributor their prize was accepted.
	KindContributor Kind = "contributor"
	// KindShipping tells a donor their prize has shipped or been awarded.
	KindShipping Kind = "shipping"
)

// Message carries the claim/prize context the notification templates need.
type Message struct {
	Kind      Kind   `json:"kind"`
	EventID   string `json:"event_id"`
	PrizeID   string `json:"prize_id"`
	PrizeName string `json:"prize_name"`
	ClaimID   string `json:"claim_id,omitempty"`
	DonorID   string `json:"donor_id,omitempty"`
	// AuthCode lets the winner email link straight to self-service
	// accept/decline without a login.
	AuthCode string `json:"auth_code,omitempty"`
	// Copies is how many prize copies the message covers.
	Copies int `json:"copies,omitempty"`
}

// ErrDisabled is returned by Send when no endpoint is configured. Callers
// treat it as "not sent" rather than a failure.
var ErrDisabled = errors.New("notify: no endpoint configured")

// Client sends templated notifications.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPClient posts messages to the notification service as JSON.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a notification client. An empty baseURL disables sending.
func NewClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) Send(ctx context.Context, msg Message) error {
	if c.baseURL == "" {
		return ErrDisabled
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send %s: %w", msg.Kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: send %s: unexpected status %d", msg.Kind, resp.StatusCode)
	}
	return nil
}
