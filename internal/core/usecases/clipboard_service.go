package usecases

import (
	"fmt"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
)

// ClipboardService moves coordinates between the clipboard and the search box.
type ClipboardService struct {
	clip ports.Clipboard
}

// NewClipboardService creates a new ClipboardService.
func NewClipboardService(clip ports.Clipboard) *ClipboardService {
	return &ClipboardService{clip: clip}
}

// CopyCoordinate writes "lat, lng" with six decimals and returns the text.
func (s *ClipboardService) CopyCoordinate(p domain.GeoPoint) (string, error) {
	text := p.String()
	if err := s.clip.WriteText(text); err != nil {
		return "", fmt.Errorf("write clipboard: %w", err)
	}
	return text, nil
}

// SearchFromClipboard parses the clipboard contents as a coordinate search.
func (s *ClipboardService) SearchFromClipboard() (domain.GeoPoint, bool, error) {
	text, err := s.clip.ReadText()
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("read clipboard: %w", err)
	}
	return ParseCoordinate(text)
}
