package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects vouch consumes and produces. Claim and evidence mutations are
// published by the CRUD service; vouch owns the coverage.computed subject.
const (
	SubjectClaimUpdated     = "impact.claim.updated"
	SubjectEvidenceLinked   = "impact.evidence.linked"
	SubjectCoverageComputed = "impact.coverage.computed"
	SubjectRegistered       = "impact.vouch.registered"
)

// ChangeEvent is the payload of claim and evidence change notifications.
type ChangeEvent struct {
	ClaimID string `json:"claim_id"`
	OrgID   string `json:"org_id"`
}

// CoverageComputed is emitted after a claim's snapshot is refreshed.
type CoverageComputed struct {
	ClaimID     string `json:"claim_id"`
	OrgID       string `json:"org_id"`
	Percentage  int    `json:"percentage"`
	CoveredDays int    `json:"covered_days"`
	TotalDays   int    `json:"total_days"`
	ComputedAt  string `json:"computed_at"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
