package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

// Subjects.
const (
	SubjectActivityPrefix  = "proof.activity."
	SubjectActivityAll     = "proof.activity.>"
	SubjectCampaignCreated = "proof.campaign.created"
)

// ActivitySubject is the subject activity events for a campaign go to.
func ActivitySubject(campaignID int64) string {
	return SubjectActivityPrefix + strconv.FormatInt(campaignID, 10)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "PROOF_ACTIVITY",
			Subjects:  []string{SubjectActivityAll},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "PROOF_CAMPAIGNS",
			Subjects:  []string{"proof.campaign.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    30 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishActivityCaptured publishes the event without the photo payload.
func (p *Publisher) PublishActivityCaptured(ctx context.Context, e *domain.ActivityEvent) error {
	ev := *e
	ev.Activity.PhotoURL = ""
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ActivitySubject(e.CampaignID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishCampaignCreated(ctx context.Context, c *domain.Campaign) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectCampaignCreated, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for request/reply and relays.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect opens a plain NATS connection that keeps reconnecting.
func Connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	opts = append([]nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}, opts...)
	return nats.Connect(url, opts...)
}
