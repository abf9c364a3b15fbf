package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
)

// DeviceSubject is the request subject a field agent with the given id
// answers position requests on.
func DeviceSubject(deviceID string) string {
	return "proof.device." + deviceID + ".position"
}

// PositionRequest is the JSON body of a position request.
type PositionRequest struct {
	HighAccuracy bool  `json:"high_accuracy"`
	TimeoutMs    int64 `json:"timeout_ms"`
	MaximumAgeMs int64 `json:"maximum_age_ms"`
}

// PositionReply is the JSON body of a position reply. Exactly one of Fix or
// Error is set.
type PositionReply struct {
	Fix   *PositionFix `json:"fix,omitempty"`
	Error *ReplyError  `json:"error,omitempty"`
}

type PositionFix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type ReplyError struct {
	Kind    domain.LocationErrorKind `json:"kind"`
	Message string                   `json:"message"`
}

func requestFromOptions(o ports.PositionOptions) PositionRequest {
	return PositionRequest{
		HighAccuracy: o.HighAccuracy,
		TimeoutMs:    o.Timeout.Milliseconds(),
		MaximumAgeMs: o.MaximumAge.Milliseconds(),
	}
}

// Options converts the request back to port options.
func (r PositionRequest) Options() ports.PositionOptions {
	return ports.PositionOptions{
		HighAccuracy: r.HighAccuracy,
		Timeout:      time.Duration(r.TimeoutMs) * time.Millisecond,
		MaximumAge:   time.Duration(r.MaximumAgeMs) * time.Millisecond,
	}
}

// PositionSource implements ports.PositionSource by asking a field agent
// over NATS request/reply.
type PositionSource struct {
	conn    *nats.Conn
	subject string
}

func NewPositionSource(conn *nats.Conn, subject string) *PositionSource {
	return &PositionSource{conn: conn, subject: subject}
}

// Available reports whether the NATS connection is up.
func (s *PositionSource) Available() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *PositionSource) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (ports.Fix, error) {
	data, err := json.Marshal(requestFromOptions(opts))
	if err != nil {
		return ports.Fix{}, err
	}

	msg, err := s.conn.RequestWithContext(ctx, s.subject, data)
	switch {
	case errors.Is(err, nats.ErrNoResponders):
		return ports.Fix{}, domain.NewLocationError(domain.PositionUnavailable, "no field agent listening on %s", s.subject)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, nats.ErrTimeout):
		return ports.Fix{}, context.DeadlineExceeded
	case err != nil:
		return ports.Fix{}, fmt.Errorf("position request: %w", err)
	}

	var reply PositionReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return ports.Fix{}, fmt.Errorf("decode position reply: %w", err)
	}
	if reply.Error != nil {
		return ports.Fix{}, &domain.LocationError{Kind: reply.Error.Kind, Message: reply.Error.Message}
	}
	if reply.Fix == nil {
		return ports.Fix{}, domain.NewLocationError(domain.LocationUnknown, "empty position reply")
	}
	return ports.Fix{
		Latitude:  reply.Fix.Latitude,
		Longitude: reply.Fix.Longitude,
		Accuracy:  reply.Fix.Accuracy,
		Timestamp: reply.Fix.Timestamp,
	}, nil
}
