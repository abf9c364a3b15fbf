package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
)

func TestPositionRequest_RoundTrip(t *testing.T) {
	opts := ports.PositionOptions{HighAccuracy: false, Timeout: 15 * time.Second, MaximumAge: 60 * time.Second}
	data, err := json.Marshal(requestFromOptions(opts))
	if err != nil {
		t.Fatal(err)
	}
	var req PositionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatal(err)
	}
	if req.Options() != opts {
		t.Errorf("got %+v, want %+v", req.Options(), opts)
	}
}

func TestPositionReply_ErrorKindOnWire(t *testing.T) {
	data, err := json.Marshal(PositionReply{Error: &ReplyError{Kind: domain.PermissionDenied, Message: "denied"}})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"error":{"kind":"permission_denied","message":"denied"}}`; string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestReplyError(t *testing.T) {
	tests := []struct {
		err  error
		want domain.LocationErrorKind
	}{
		{domain.NewLocationError(domain.PositionUnavailable, "no fix"), domain.PositionUnavailable},
		{context.DeadlineExceeded, domain.Timeout},
		{errors.New("serial port closed"), domain.LocationUnknown},
	}
	for _, tt := range tests {
		if got := replyError(tt.err).Kind; got != tt.want {
			t.Errorf("replyError(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestSubjects(t *testing.T) {
	if got := ActivitySubject(1739000000000); got != "proof.activity.1739000000000" {
		t.Errorf("ActivitySubject = %s", got)
	}
	if got := DeviceSubject("agent-7"); got != "proof.device.agent-7.position" {
		t.Errorf("DeviceSubject = %s", got)
	}
}

func TestPositionSource_UnavailableWithoutConn(t *testing.T) {
	if NewPositionSource(nil, "x").Available() {
		t.Error("expected unavailable without a connection")
	}
}
