package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

type fakeClip struct{ text string }

func (f *fakeClip) ReadText() (string, error)   { return f.text, nil }
func (f *fakeClip) WriteText(text string) error { f.text = text; return nil }

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		clip string
		want string
	}{
		{"parse comma", []string{"parse", "19.076,", "72.8777"}, "", "19.076000, 72.877700\n"},
		{"parse clipboard", []string{"parse", "-clipboard"}, "  12.97 77.59 ", "12.970000, 77.590000\n"},
		{"copy", []string{"copy", "1.5", "2.25"}, "", "copied 1.500000, 2.250000\n"},
		{"map default", []string{"map"}, "", "source: default"},
		{"map search", []string{"map", "-search", "10, 20", "1,2"}, "", "marker: 10.000000, 20.000000"},
		{"acquire", []string{"acquire", "-seed", "3"}, "", "near "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, &out, &fakeClip{text: tt.clip}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, out.String())
			}
		})
	}
}

func TestRun_CopyWritesClipboard(t *testing.T) {
	clip := &fakeClip{}
	if err := run([]string{"copy", "28.6139", "77.209"}, &bytes.Buffer{}, clip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clip.text != "28.613900, 77.209000" {
		t.Errorf("clipboard holds %q", clip.text)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"no command", nil, nil},
		{"unknown", []string{"frobnicate"}, nil},
		{"bad latitude", []string{"parse", "95, 10"}, domain.ErrLatitudeOutOfRange},
		{"bad format", []string{"parse", "north"}, domain.ErrCoordinateFormat},
		{"blank", []string{"parse"}, nil},
		{"copy arity", []string{"copy", "1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, &bytes.Buffer{}, &fakeClip{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}
