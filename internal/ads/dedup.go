package ads

import (
	"strings"

	"github.com/yoockh/adchat/internal/models"
)

// Deduplicate suppresses all advertising when any assistant turn in the recent window
// already surfaced an ad. The window is expected to be truncated by the caller.
func Deduplicate(products []models.Product, recent []models.Message, marker string) []models.Product {
	for _, m := range recent {
		if m.Role != models.RoleAssistantTurn {
			continue
		}
		if HasAdMarker(m, marker) {
			return nil
		}
	}
	return products
}

// HasAdMarker checks structured markers first; rows written before markers existed
// are matched on the tracking path in their text.
func HasAdMarker(m models.Message, marker string) bool {
	if len(m.Markers()) > 0 {
		return true
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return strings.Contains(m.Content, marker)
}
