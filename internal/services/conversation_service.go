package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/adchat/internal/models"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

type ConversationService interface {
	// History returns one conversation page, newest first.
	History(ctx context.Context, userID int64, assistantSlug string, limit, offset int) ([]models.Message, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.Message, error)
	Delete(ctx context.Context, id int64) error
}

type conversationService struct {
	messages pgrepo.MessageRepository
}

func NewConversationService(messages pgrepo.MessageRepository) ConversationService {
	return &conversationService{messages: messages}
}

func (s *conversationService) History(ctx context.Context, userID int64, assistantSlug string, limit, offset int) ([]models.Message, error) {
	const op = "ConversationService.History"

	assistantSlug = strings.TrimSpace(assistantSlug)
	if userID == 0 || assistantSlug == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and assistant_slug are required", nil)
	}
	if offset < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "offset must be >= 0", nil)
	}

	rows, err := s.messages.Recent(ctx, userID, assistantSlug, limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	return rows, nil
}

func (s *conversationService) Search(ctx context.Context, query string, limit, offset int) ([]models.Message, error) {
	const op = "ConversationService.Search"

	rows, err := s.messages.Search(ctx, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search messages", err)
	}
	return rows, nil
}

func (s *conversationService) Delete(ctx context.Context, id int64) error {
	const op = "ConversationService.Delete"

	if id <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "message not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete message", err)
	}
	return nil
}
