package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/adchat/internal/ads"
	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/providers/llm"
	"github.com/yoockh/adchat/internal/utils"
)

const clickBase = "https://app.example.com/api/click"

type chatFixture struct {
	tx       *fakeTx
	users    *fakeUsers
	products *fakeProducts
	messages *fakeMessages
	llm      *fakeLLM
	images   *fakeUploader
	svc      ChatService
}

func newChatFixture(t *testing.T, withImages bool, products ...models.Product) *chatFixture {
	t.Helper()

	tr, err := ads.NewTracker(clickBase)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &chatFixture{
		tx:       &fakeTx{},
		users:    newFakeUsers(),
		products: newFakeProducts(products...),
		messages: &fakeMessages{},
		llm:      &fakeLLM{reply: "ok"},
	}
	deps := ChatDeps{
		Tx:    f.tx,
		Users: f.users,
		Assistants: newFakeAssistants(
			models.Assistant{Slug: "doctor", Name: "Доктор"},
			models.Assistant{Slug: "lawyer", Name: "Юрист", Preset: "@preset/lawyer"},
		),
		Products: f.products,
		Messages: f.messages,
		LLM:      f.llm,
		Tracker:  tr,
		Logger:   log,
	}
	if withImages {
		f.images = &fakeUploader{}
		deps.Images = f.images
	}
	f.svc = NewChatService(deps)
	return f
}

func vitamins() models.Product {
	return models.Product{ID: 7, Name: "Vitamin D", Keywords: []string{"vitamins"}, AdText: "Daily vitamin", Link: "https://shop.example.com/d", IsActive: true}
}

func TestChatSendCountsImpressionForLinkedProduct(t *testing.T) {
	f := newChatFixture(t, false, vitamins())
	f.llm.reply = "Try [Vitamin D](" + clickBase + "?product_id=7&user_id=42) daily."

	reply, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, Username: "anna", AssistantSlug: "doctor", Text: "I feel tired"})
	require.NoError(t, err)

	assert.Equal(t, f.llm.reply, reply.Response)
	assert.Equal(t, []int64{7}, reply.Impressions)
	assert.Equal(t, int64(1), f.products.get(7).Impressions)

	require.Len(t, f.llm.sent, 2)
	assert.Equal(t, llm.RoleSystem, f.llm.sent[0].Role)
	assert.Contains(t, f.llm.sent[0].Content, "URL: "+clickBase+"?product_id=7&user_id=42")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "I feel tired"}, f.llm.sent[1])
	assert.Equal(t, DefaultModel, f.llm.model)

	require.Len(t, f.messages.rows, 2)
	assert.Equal(t, models.RoleUserTurn, f.messages.rows[0].Role)
	assert.Equal(t, models.RoleAssistantTurn, f.messages.rows[1].Role)
	assert.Equal(t, []models.AdMarker{{ProductID: 7, URL: clickBase + "?product_id=7&user_id=42"}}, f.messages.rows[1].Markers())
	assert.Empty(t, f.messages.rows[0].Markers())

	assert.Contains(t, f.users.users, int64(42))
	assert.Equal(t, 1, f.tx.calls)
}

func TestChatSendSuppressesAdsAfterRecentMention(t *testing.T) {
	f := newChatFixture(t, false, vitamins())
	f.messages.seed(models.Message{UserID: 42, AssistantSlug: "doctor", Role: models.RoleUserTurn, Content: "hi"})
	f.messages.seed(models.Message{UserID: 42, AssistantSlug: "doctor", Role: models.RoleAssistantTurn, Content: "see /api/click?product_id=3"})

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "and now?"})
	require.NoError(t, err)

	for _, m := range f.llm.sent {
		assert.NotEqual(t, llm.RoleSystem, m.Role)
	}
	require.Len(t, f.llm.sent, 3)
	assert.Equal(t, "hi", f.llm.sent[0].Content)
	assert.Equal(t, "see /api/click?product_id=3", f.llm.sent[1].Content)
	assert.Equal(t, int64(0), f.products.get(7).Impressions)
}

func TestChatSendStructuredMarkerSuppressesAds(t *testing.T) {
	f := newChatFixture(t, false, vitamins())
	prev := models.Message{UserID: 42, AssistantSlug: "doctor", Role: models.RoleAssistantTurn, Content: "rendered without the link"}
	require.NoError(t, prev.SetAdMarkers([]models.AdMarker{{ProductID: 7, URL: "x"}}))
	f.messages.seed(prev)

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "hello"})
	require.NoError(t, err)
	assert.NotEqual(t, llm.RoleSystem, f.llm.sent[0].Role)
}

func TestChatSendHistoryOfOtherAssistantDoesNotSuppress(t *testing.T) {
	f := newChatFixture(t, false, vitamins())
	f.messages.seed(models.Message{UserID: 42, AssistantSlug: "lawyer", Role: models.RoleAssistantTurn, Content: "/api/click?product_id=7"})

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "hello"})
	require.NoError(t, err)
	require.Len(t, f.llm.sent, 2)
	assert.Equal(t, llm.RoleSystem, f.llm.sent[0].Role)
}

func TestChatSendHistoryWindowIsBounded(t *testing.T) {
	f := newChatFixture(t, false)
	for i := 0; i < 30; i++ {
		f.messages.seed(models.Message{UserID: 42, AssistantSlug: "doctor", Role: models.RoleUserTurn, Content: fmt.Sprintf("m%d", i)})
	}

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "last"})
	require.NoError(t, err)

	require.Len(t, f.llm.sent, DefaultHistoryWindow+1)
	assert.Equal(t, "m20", f.llm.sent[0].Content)
	assert.Equal(t, "m29", f.llm.sent[DefaultHistoryWindow-1].Content)
}

func TestChatSendIgnoresUnknownAndForeignIDs(t *testing.T) {
	f := newChatFixture(t, false, vitamins())
	f.llm.reply = "a " + clickBase + "?product_id=7 b " + clickBase + "?product_id=999 c https://other.example.com/?product_id=5"

	reply, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "x"})
	require.NoError(t, err)

	assert.Equal(t, []int64{7, 999}, reply.Impressions)
	assert.Equal(t, int64(1), f.products.get(7).Impressions)
}

func TestChatSendUpstreamFailureWritesNothing(t *testing.T) {
	f := newChatFixture(t, false, vitamins())
	f.llm.err = fmt.Errorf("%w: 502", llm.ErrUpstream)

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "hello"})
	require.Error(t, err)

	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.ErrorIs(t, err, llm.ErrUpstream)
	assert.Empty(t, f.messages.rows)
	assert.Equal(t, int64(0), f.products.get(7).Impressions)
	assert.Equal(t, 0, f.tx.calls)
}

func TestChatSendValidation(t *testing.T) {
	f := newChatFixture(t, false)

	cases := []ChatRequest{
		{UserID: 0, AssistantSlug: "doctor", Text: "x"},
		{UserID: 42, AssistantSlug: "  ", Text: "x"},
		{UserID: 42, AssistantSlug: "doctor", Text: "   "},
	}
	for _, req := range cases {
		_, err := f.svc.Send(context.Background(), req)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument), "%+v", req)
	}
	assert.Equal(t, 0, f.llm.calls)
	assert.Empty(t, f.users.users)
}

func TestChatSendUnknownAssistant(t *testing.T) {
	f := newChatFixture(t, false)

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "ghost", Text: "x"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	assert.Equal(t, 0, f.llm.calls)
}

func TestChatSendUsesAssistantPreset(t *testing.T) {
	f := newChatFixture(t, false)

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "lawyer", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "@preset/lawyer", f.llm.model)
}

func TestChatSendTargetingExcludesOtherAssistants(t *testing.T) {
	p := vitamins()
	p.TargetAssistants = "lawyer"
	f := newChatFixture(t, false, p)

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "x"})
	require.NoError(t, err)
	require.Len(t, f.llm.sent, 1)
	assert.Equal(t, llm.RoleUser, f.llm.sent[0].Role)
}

func TestChatSendImageWithoutStorage(t *testing.T) {
	f := newChatFixture(t, false)

	_, err := f.svc.Send(context.Background(), ChatRequest{
		UserID: 42, AssistantSlug: "doctor",
		Image: &ImageUpload{FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("png")},
	})
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Equal(t, 0, f.llm.calls)
}

func TestChatSendImageIsUploadedAndForwarded(t *testing.T) {
	f := newChatFixture(t, true)

	_, err := f.svc.Send(context.Background(), ChatRequest{
		UserID: 42, AssistantSlug: "doctor", Text: "what is this?",
		Image: &ImageUpload{FileName: "pill.JPG", ContentType: "image/jpeg", Body: strings.NewReader("jpeg-bytes")},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(f.images.name, "chat/42/"))
	assert.True(t, strings.HasSuffix(f.images.name, ".jpg"))
	assert.Equal(t, "jpeg-bytes", f.images.body)

	last := f.llm.sent[len(f.llm.sent)-1]
	assert.Equal(t, "https://storage.googleapis.com/bucket/"+f.images.name, last.ImageURL)
	require.NotNil(t, f.messages.rows[0].ImageURL)
	assert.Equal(t, last.ImageURL, *f.messages.rows[0].ImageURL)
	assert.Empty(t, f.images.deleted)
}

func pillImage() *ImageUpload {
	return &ImageUpload{FileName: "pill.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")}
}

func TestChatSendUpstreamFailureRemovesUploadedImage(t *testing.T) {
	f := newChatFixture(t, true)
	f.llm.err = fmt.Errorf("%w: 502", llm.ErrUpstream)

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "what is this?", Image: pillImage()})
	require.Error(t, err)

	require.NotEmpty(t, f.images.name)
	assert.Equal(t, []string{f.images.name}, f.images.deleted)
	assert.Empty(t, f.messages.rows)
}

func TestChatSendSaveFailureRemovesUploadedImage(t *testing.T) {
	f := newChatFixture(t, true)
	f.messages.insertErr = errBoom

	_, err := f.svc.Send(context.Background(), ChatRequest{UserID: 42, AssistantSlug: "doctor", Text: "what is this?", Image: pillImage()})
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
	assert.Equal(t, []string{f.images.name}, f.images.deleted)
}
