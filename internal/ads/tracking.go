// Package ads holds the advertising pipeline that runs around every chat turn:
// targeting, recency suppression, prompt composition and impression extraction.
package ads

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMarker is the click-redirect path that identifies a tracking link.
const DefaultMarker = "/api/click"

// Tracker builds tracking links for one click-redirect base URL and recognises them in text.
type Tracker struct {
	base   string
	marker string
	re     *regexp.Regexp
}

func NewTracker(baseURL string) (*Tracker, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("click base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	// a bare host gets the default redirect path so emitted links stay extractable
	marker := strings.TrimRight(u.Path, "/")
	if marker == "" {
		marker = DefaultMarker
		u.Path = DefaultMarker
		baseURL = u.String()
	}

	// product_id may follow other params, separated by & or an html-escaped &amp;
	re := regexp.MustCompile(regexp.QuoteMeta(marker) + `/?\?(?:[^\s"'<>()\[\]]*?[&;])?product_id=(\d+)`)

	return &Tracker{base: strings.TrimRight(baseURL, "?&"), marker: marker, re: re}, nil
}

// Marker is the substring every tracking link contains.
func (t *Tracker) Marker() string { return t.marker }

// URL returns <base>?product_id=<id>[&user_id=<id>]; userID 0 means anonymous.
func (t *Tracker) URL(productID, userID int64) string {
	sep := "?"
	if strings.Contains(t.base, "?") {
		sep = "&"
	}

	var b strings.Builder
	b.WriteString(t.base)
	b.WriteString(sep)
	b.WriteString("product_id=")
	b.WriteString(strconv.FormatInt(productID, 10))
	if userID != 0 {
		b.WriteString("&user_id=")
		b.WriteString(strconv.FormatInt(userID, 10))
	}
	return b.String()
}
