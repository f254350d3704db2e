// Package sheets reads the product catalog from a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/yoockh/adchat/internal/models"
)

// Column order of the catalog sheet.
const (
	colName = iota
	colKeywords
	colAdText
	colLink
	colActive
	colTargets
)

type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
}

type CatalogSheet struct {
	svc           *gsheets.Service
	spreadsheetID string
	readRange     string
}

func NewCatalogSheet(ctx context.Context, spreadsheetID, readRange, credentialsFile string) (*CatalogSheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if readRange == "" {
		readRange = "Products!A2:G"
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(gsheets.SpreadsheetsReadonlyScope))

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &CatalogSheet{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

func (s *CatalogSheet) Products(ctx context.Context) ([]models.Product, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.readRange, err)
	}
	return ParseRows(resp.Values), nil
}

// ParseRows converts sheet rows into products. Rows without a name or link are skipped;
// a later row with the same name wins.
func ParseRows(rows [][]interface{}) []models.Product {
	out := make([]models.Product, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		name := cell(row, colName)
		link := cell(row, colLink)
		if name == "" || link == "" {
			continue
		}
		p := models.Product{
			Name:             name,
			Keywords:         splitKeywords(cell(row, colKeywords)),
			AdText:           cell(row, colAdText),
			Link:             link,
			IsActive:         parseActive(cell(row, colActive)),
			TargetAssistants: normalizeTargets(cell(row, colTargets)),
		}
		if i, ok := index[name]; ok {
			out[i] = p
			continue
		}
		index[name] = len(out)
		out = append(out, p)
	}
	return out
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func splitKeywords(s string) pq.StringArray {
	out := pq.StringArray{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func normalizeTargets(s string) string {
	parts := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ",")
}

func parseActive(s string) bool {
	switch strings.ToLower(s) {
	case "", "true", "1", "yes", "y", "да", "+":
		return true
	default:
		return false
	}
}
