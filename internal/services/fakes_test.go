package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/providers/llm"
	"github.com/yoockh/adchat/internal/utils"
)

type fakeTx struct{ calls int }

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: map[int64]models.User{}} }

func (r *fakeUsers) Ensure(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.TgID]; !ok {
		r.users[u.TgID] = *u
	}
	return nil
}

func (r *fakeUsers) List(_ context.Context, limit, offset int) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeAssistants struct {
	rows map[string]models.Assistant
}

func newFakeAssistants(as ...models.Assistant) *fakeAssistants {
	r := &fakeAssistants{rows: map[string]models.Assistant{}}
	for _, a := range as {
		r.rows[a.Slug] = a
	}
	return r
}

func (r *fakeAssistants) List(context.Context) ([]models.Assistant, error) {
	out := []models.Assistant{}
	for _, a := range r.rows {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssistants) GetBySlug(_ context.Context, slug string) (*models.Assistant, error) {
	a, ok := r.rows[slug]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAssistants) Create(_ context.Context, a *models.Assistant) error {
	r.rows[a.Slug] = *a
	return nil
}

func (r *fakeAssistants) Update(_ context.Context, a *models.Assistant) error {
	if _, ok := r.rows[a.Slug]; !ok {
		return utils.ErrNotFound
	}
	r.rows[a.Slug] = *a
	return nil
}

type fakeProducts struct {
	mu       sync.Mutex
	rows     map[int64]*models.Product
	upserted []models.Product
	listErr  error
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	r := &fakeProducts{rows: map[int64]*models.Product{}}
	for i := range ps {
		p := ps[i]
		r.rows[p.ID] = &p
	}
	return r
}

func (r *fakeProducts) get(id int64) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.rows[id]
}

func (r *fakeProducts) ListActive(context.Context) ([]models.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []models.Product{}
	for _, p := range r.sorted() {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProducts) sorted() []models.Product {
	out := make([]models.Product, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProducts) GetByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProducts) IncrementImpressions(_ context.Context, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			p.Impressions++
			n++
		}
	}
	return n, nil
}

func (r *fakeProducts) IncrementClicks(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	p.Clicks++
	return nil
}

func (r *fakeProducts) List(context.Context, int, int) ([]models.Product, error) {
	return r.sorted(), nil
}

func (r *fakeProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = int64(len(r.rows) + 1)
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeProducts) Update(_ context.Context, p *models.Product) error {
	cur, ok := r.rows[p.ID]
	if !ok {
		return utils.ErrNotFound
	}
	imp, clk := cur.Impressions, cur.Clicks
	*cur = *p
	cur.Impressions, cur.Clicks = imp, clk
	return nil
}

func (r *fakeProducts) UpsertByName(_ context.Context, ps []models.Product) error {
	r.upserted = append(r.upserted, ps...)
	return nil
}

type fakeMessages struct {
	mu        sync.Mutex
	rows      []models.Message
	insertErr error
}

func (r *fakeMessages) seed(m models.Message) {
	m.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, m)
}

func (r *fakeMessages) Recent(_ context.Context, userID int64, slug string, limit, offset int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for i := len(r.rows) - 1; i >= 0; i-- {
		m := r.rows[i]
		if m.UserID == userID && m.AssistantSlug == slug {
			out = append(out, m)
		}
	}
	if offset >= len(out) {
		return []models.Message{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessages) InsertMany(_ context.Context, msgs []*models.Message) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		m.ID = int64(len(r.rows) + 1)
		r.rows = append(r.rows, *m)
	}
	return nil
}

func (r *fakeMessages) Search(_ context.Context, q string, limit, offset int) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range r.rows {
		if strings.Contains(m.Content, q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessages) Delete(_ context.Context, id int64) error {
	for i, m := range r.rows {
		if m.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return utils.ErrNotFound
}

type fakeLLM struct {
	reply string
	err   error

	calls int
	model string
	sent  []llm.Message
}

func (f *fakeLLM) Complete(_ context.Context, model string, msgs []llm.Message) (string, error) {
	f.calls++
	f.model = model
	f.sent = msgs
	return f.reply, f.err
}

func (f *fakeLLM) Close() error { return nil }

type fakeUploader struct {
	name    string
	ct      string
	body    string
	deleted []string
}

func (u *fakeUploader) Upload(_ context.Context, name, ct string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.name, u.ct, u.body = name, ct, string(b)
	return "https://storage.googleapis.com/bucket/" + name, nil
}

func (u *fakeUploader) Delete(_ context.Context, name string) error {
	u.deleted = append(u.deleted, name)
	return nil
}

type fakeClicks struct{ rows []models.ClickRecord }

func (r *fakeClicks) Insert(_ context.Context, c *models.ClickRecord) error {
	r.rows = append(r.rows, *c)
	return nil
}

type fakeAudit struct {
	events []models.ClickEvent
	err    error
}

func (r *fakeAudit) Insert(_ context.Context, e *models.ClickEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeAudit) ListByProduct(_ context.Context, productID int64, limit int64) ([]models.ClickEvent, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.ClickEvent{}
	for _, e := range r.events {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeMetrics struct {
	users         int64
	createdBefore int64
	retained      int64
	activeSince   map[time.Duration]int64 // keyed by distance from now; zero time uses activeAll
	activeAll     int64
	now           time.Time
	ctr           []models.ProductCTR
	calls         int
	err           error
}

func (m *fakeMetrics) CountUsers(context.Context) (int64, error) {
	m.calls++
	return m.users, m.err
}

func (m *fakeMetrics) CountUsersCreatedBefore(context.Context, time.Time) (int64, error) {
	return m.createdBefore, m.err
}

func (m *fakeMetrics) CountActiveUsersSince(_ context.Context, since time.Time) (int64, error) {
	if since.IsZero() {
		return m.activeAll, m.err
	}
	return m.activeSince[m.now.Sub(since)], m.err
}

func (m *fakeMetrics) CountRetainedUsers(context.Context, time.Time, int) (int64, error) {
	return m.retained, m.err
}

func (m *fakeMetrics) AssistantPopularity(context.Context) ([]models.NamedCount, error) {
	return []models.NamedCount{{Name: "Доктор", Count: 5}}, m.err
}

func (m *fakeMetrics) MessageVolume(context.Context, time.Time) ([]models.DailyCount, error) {
	return []models.DailyCount{{Date: "2026-10-14", Count: 12}}, m.err
}

func (m *fakeMetrics) ProductCTR(context.Context) ([]models.ProductCTR, error) {
	out := append([]models.ProductCTR(nil), m.ctr...)
	return out, m.err
}

type fakeSource struct {
	rows []models.Product
	err  error
}

func (s *fakeSource) Products(context.Context) ([]models.Product, error) {
	return s.rows, s.err
}

var errBoom = errors.New("boom")
