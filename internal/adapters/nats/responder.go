package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
)

// PositionHandler produces a fix for one request.
type PositionHandler func(ctx context.Context, opts ports.PositionOptions) (ports.Fix, error)

// Responder answers position requests on behalf of a device.
type Responder struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

// NewResponder wraps an existing connection.
func NewResponder(conn *nats.Conn) *Responder {
	return &Responder{conn: conn}
}

// RespondPositions subscribes handler to subject. Each request is served with
// the timeout it carries; errors are sent back as typed replies.
func (r *Responder) RespondPositions(ctx context.Context, subject string, handler PositionHandler) error {
	sub, err := r.conn.Subscribe(subject, func(msg *nats.Msg) {
		var req PositionRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			r.reply(msg, PositionReply{Error: &ReplyError{Kind: domain.LocationUnknown, Message: "malformed request"}})
			return
		}

		hctx := ctx
		if req.TimeoutMs > 0 {
			var cancel context.CancelFunc
			hctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
			defer cancel()
		}

		fix, err := handler(hctx, req.Options())
		if err != nil {
			r.reply(msg, PositionReply{Error: replyError(err)})
			return
		}
		r.reply(msg, PositionReply{Fix: &PositionFix{
			Latitude:  fix.Latitude,
			Longitude: fix.Longitude,
			Accuracy:  fix.Accuracy,
			Timestamp: fix.Timestamp,
		}})
	})
	if err != nil {
		return err
	}
	r.subs = append(r.subs, sub)
	return nil
}

func replyError(err error) *ReplyError {
	var le *domain.LocationError
	if errors.As(err, &le) {
		return &ReplyError{Kind: le.Kind, Message: le.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ReplyError{Kind: domain.Timeout, Message: err.Error()}
	}
	return &ReplyError{Kind: domain.LocationUnknown, Message: err.Error()}
}

func (r *Responder) reply(msg *nats.Msg, rep PositionReply) {
	data, err := json.Marshal(rep)
	if err != nil {
		slog.Error("encode position reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Warn("position reply failed", "subject", msg.Subject, "error", err)
	}
}

// Close unsubscribes and drains.
func (r *Responder) Close() {
	for _, sub := range r.subs {
		_ = sub.Unsubscribe()
	}
	_ = r.conn.Drain()
}
