package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/adchat/internal/models"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

type AssistantService interface {
	List(ctx context.Context) ([]models.Assistant, error)
	Create(ctx context.Context, a *models.Assistant) error
	Update(ctx context.Context, a *models.Assistant) error
}

type assistantService struct {
	assistants pgrepo.AssistantRepository
}

func NewAssistantService(assistants pgrepo.AssistantRepository) AssistantService {
	return &assistantService{assistants: assistants}
}

func (s *assistantService) List(ctx context.Context) ([]models.Assistant, error) {
	const op = "AssistantService.List"

	rows, err := s.assistants.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list assistants", err)
	}
	return rows, nil
}

func (s *assistantService) Create(ctx context.Context, a *models.Assistant) error {
	const op = "AssistantService.Create"

	if a == nil || strings.TrimSpace(a.Slug) == "" || strings.TrimSpace(a.Name) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "slug and name are required", nil)
	}
	a.Slug = strings.TrimSpace(a.Slug)

	if _, err := s.assistants.GetBySlug(ctx, a.Slug); err == nil {
		return utils.E(utils.CodeConflict, op, "assistant already exists", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to check assistant", err)
	}

	if err := s.assistants.Create(ctx, a); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to create assistant", err)
	}
	return nil
}

func (s *assistantService) Update(ctx context.Context, a *models.Assistant) error {
	const op = "AssistantService.Update"

	if a == nil || strings.TrimSpace(a.Slug) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "slug is required", nil)
	}
	if err := s.assistants.Update(ctx, a); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "assistant not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update assistant", err)
	}
	return nil
}
