package ads

import (
	"strings"

	"github.com/yoockh/adchat/internal/models"
)

// FilterForAssistant keeps products that target every assistant (empty target list)
// or list slug as one of their comma-separated targets. Catalog order is preserved.
func FilterForAssistant(products []models.Product, slug string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if TargetsAssistant(p.TargetAssistants, slug) {
			out = append(out, p)
		}
	}
	return out
}

// TargetsAssistant matches whole list entries only: "med" does not match "medic".
func TargetsAssistant(targets, slug string) bool {
	if strings.TrimSpace(targets) == "" {
		return true
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false
	}
	for _, t := range strings.Split(targets, ",") {
		if strings.EqualFold(strings.TrimSpace(t), slug) {
			return true
		}
	}
	return false
}
