package ads

import (
	"fmt"
	"strings"

	"github.com/yoockh/adchat/internal/models"
)

const instructionHeader = `You may recommend the partner products listed below.
Recommend a product only when it is genuinely relevant to the user's question, and weave it in naturally as friendly advice, never as an advertisement.
When you mention a product, link it with exactly the URL given for it. Copy the URL literally. Never invent, shorten or change links, and never link products that are not on this list.`

// Compose builds the system instruction for the eligible products.
// It returns "" for an empty list, in which case no system turn must be sent.
func (t *Tracker) Compose(products []models.Product, userID int64) string {
	if len(products) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(instructionHeader)
	b.WriteString("\n")
	for i, p := range products {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, strings.TrimSpace(p.Name))
		if kw := joinKeywords(p.Keywords); kw != "" {
			fmt.Fprintf(&b, "   Topics: %s\n", kw)
		}
		if ad := strings.TrimSpace(p.AdText); ad != "" {
			fmt.Fprintf(&b, "   About: %s\n", ad)
		}
		fmt.Fprintf(&b, "   URL: %s\n", t.URL(p.ID, userID))
	}
	return b.String()
}

func joinKeywords(kws []string) string {
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return strings.Join(out, ", ")
}
