// Package tgauth validates Telegram WebApp initData payloads.
package tgauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissing     = errors.New("no init data found")
	ErrMalformed   = errors.New("invalid init data")
	ErrHashMissing = errors.New("hash missing")
	ErrSignature   = errors.New("data integrity check failed")
	ErrExpired     = errors.New("init data expired")
)

type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate checks the initData signature against botToken and returns the embedded user.
// maxAge <= 0 disables the auth_date freshness check.
func Validate(initData, botToken string, maxAge time.Duration, now time.Time) (*WebAppUser, error) {
	if strings.TrimSpace(initData) == "" {
		return nil, ErrMissing
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrMalformed
	}

	got := values.Get("hash")
	if got == "" {
		return nil, ErrHashMissing
	}
	values.Del("hash")

	want := Sign(values, botToken)
	if !hmac.Equal([]byte(strings.ToLower(got)), []byte(want)) {
		return nil, ErrSignature
	}

	if maxAge > 0 {
		ts, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, ErrMalformed
		}
		if now.Sub(time.Unix(ts, 0)) > maxAge {
			return nil, ErrExpired
		}
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, ErrMalformed
	}
	var u WebAppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == 0 {
		return nil, ErrMalformed
	}
	return &u, nil
}

// Sign computes the hex hash Telegram attaches to initData (values must not contain "hash").
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
