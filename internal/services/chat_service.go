package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/adchat/internal/ads"
	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/providers/llm"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/storage"
	"github.com/yoockh/adchat/internal/utils"
)

const (
	DefaultHistoryWindow = 10
	DefaultModel         = "openai/gpt-4o-mini"
)

type ChatRequest struct {
	UserID        int64
	Username      string
	AssistantSlug string
	Text          string
	Image         *ImageUpload
}

type ImageUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type ChatReply struct {
	Response    string  `json:"response"`
	Impressions []int64 `json:"-"`
}

type ChatService interface {
	Send(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

type ChatDeps struct {
	Tx         pgrepo.Transactor
	Users      pgrepo.UserRepository
	Assistants pgrepo.AssistantRepository
	Products   pgrepo.ProductRepository
	Messages   pgrepo.MessageRepository
	LLM        llm.Provider
	Tracker    *ads.Tracker
	Images     storage.Uploader // optional

	HistoryWindow int
	DefaultModel  string
	Logger        logrus.FieldLogger
}

type chatService struct {
	ChatDeps
}

func NewChatService(d ChatDeps) ChatService {
	if d.HistoryWindow <= 0 {
		d.HistoryWindow = DefaultHistoryWindow
	}
	if d.DefaultModel == "" {
		d.DefaultModel = DefaultModel
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &chatService{ChatDeps: d}
}

func (s *chatService) Send(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	const op = "ChatService.Send"

	req.AssistantSlug = strings.TrimSpace(req.AssistantSlug)
	req.Text = strings.TrimSpace(req.Text)
	if req.UserID == 0 || req.AssistantSlug == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and assistant_slug are required", nil)
	}
	if req.Text == "" && req.Image == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "text or image is required", nil)
	}

	assistant, err := s.Assistants.GetBySlug(ctx, req.AssistantSlug)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "assistant not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load assistant", err)
	}

	if err := s.Users.Ensure(ctx, &models.User{TgID: req.UserID, Username: req.Username, CreatedAt: time.Now().UTC()}); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to register user", err)
	}

	recent, err := s.Messages.Recent(ctx, req.UserID, req.AssistantSlug, s.HistoryWindow, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}
	history := chronological(recent)

	instruction, err := s.adInstruction(ctx, req, history)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load products", err)
	}

	var imageURL *string
	var imageObject string
	if req.Image != nil {
		u, object, err := s.uploadImage(ctx, req.UserID, req.Image)
		if err != nil {
			return nil, err
		}
		imageURL, imageObject = &u, object
	}
	// the uploaded object is only kept once both turns are committed
	committed := false
	defer func() {
		if imageObject != "" && !committed {
			s.discardImage(ctx, imageObject)
		}
	}()

	model := strings.TrimSpace(assistant.Preset)
	if model == "" {
		model = s.DefaultModel
	}

	answer, err := s.LLM.Complete(ctx, model, buildPrompt(instruction, history, req.Text, imageURL))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "assistant is temporarily unavailable", err)
	}

	ids := s.Tracker.ProductIDs(answer)
	userTurn := &models.Message{
		UserID:        req.UserID,
		AssistantSlug: req.AssistantSlug,
		Role:          models.RoleUserTurn,
		Content:       req.Text,
		ImageURL:      imageURL,
		CreatedAt:     time.Now().UTC(),
	}
	aiTurn := &models.Message{
		UserID:        req.UserID,
		AssistantSlug: req.AssistantSlug,
		Role:          models.RoleAssistantTurn,
		Content:       answer,
		CreatedAt:     userTurn.CreatedAt,
	}
	if err := aiTurn.SetAdMarkers(s.markers(ids, req.UserID)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode ad markers", err)
	}

	var counted int64
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Messages.InsertMany(ctx, []*models.Message{userTurn, aiTurn}); err != nil {
			return err
		}
		n, err := s.Products.IncrementImpressions(ctx, ids)
		counted = n
		return err
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save conversation", err)
	}

	if len(ids) > 0 {
		s.Logger.WithFields(logrus.Fields{
			"user_id":     req.UserID,
			"assistant":   req.AssistantSlug,
			"product_ids": ids,
			"counted":     counted,
		}).Info("ad impressions recorded")
	}

	committed = true
	return &ChatReply{Response: answer, Impressions: ids}, nil
}

// adInstruction runs targeting and recency suppression and returns the system
// instruction, "" when nothing may be advertised this turn.
func (s *chatService) adInstruction(ctx context.Context, req ChatRequest, history []models.Message) (string, error) {
	active, err := s.Products.ListActive(ctx)
	if err != nil {
		return "", err
	}

	eligible := ads.FilterForAssistant(active, req.AssistantSlug)
	allowed := ads.Deduplicate(eligible, history, s.Tracker.Marker())

	log := s.Logger.WithFields(logrus.Fields{
		"user_id":   req.UserID,
		"assistant": req.AssistantSlug,
		"active":    len(active),
		"eligible":  len(eligible),
	})
	if len(eligible) > 0 && len(allowed) == 0 {
		log.Debug("ads suppressed by recent mention")
	} else {
		log.Debug("ads eligible")
	}

	return s.Tracker.Compose(allowed, req.UserID), nil
}

func (s *chatService) uploadImage(ctx context.Context, userID int64, img *ImageUpload) (string, string, error) {
	const op = "ChatService.uploadImage"

	if s.Images == nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "image uploads are not configured", nil)
	}
	ext := strings.ToLower(filepath.Ext(img.FileName))
	if ext == "" {
		ext = extensionFor(img.ContentType)
	}
	objectName := "chat/" + strconv.FormatInt(userID, 10) + "/" + uuid.NewString() + ext

	u, err := s.Images.Upload(ctx, objectName, img.ContentType, img.Body)
	if err != nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "failed to upload image", err)
	}
	return u, objectName, nil
}

// discardImage removes an upload whose turn was never saved. It outlives a cancelled request.
func (s *chatService) discardImage(ctx context.Context, objectName string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.Images.Delete(ctx, objectName); err != nil {
		s.Logger.WithError(err).WithField("object", objectName).Warn("failed to delete orphaned chat image")
	}
}

func (s *chatService) markers(ids []int64, userID int64) []models.AdMarker {
	out := make([]models.AdMarker, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.AdMarker{ProductID: id, URL: s.Tracker.URL(id, userID)})
	}
	return out
}

func buildPrompt(instruction string, history []models.Message, text string, imageURL *string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+2)
	if instruction != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: instruction})
	}
	for _, m := range history {
		msg := llm.Message{Role: m.Role, Content: m.Content}
		if m.ImageURL != nil {
			msg.ImageURL = *m.ImageURL
		}
		msgs = append(msgs, msg)
	}

	turn := llm.Message{Role: llm.RoleUser, Content: text}
	if imageURL != nil {
		turn.ImageURL = *imageURL
	}
	return append(msgs, turn)
}

// chronological reverses a newest-first page into a new slice.
func chronological(rows []models.Message) []models.Message {
	out := make([]models.Message, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = m
	}
	return out
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
