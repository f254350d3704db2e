package services

import (
	"context"

	"github.com/yoockh/adchat/internal/models"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

type UserService interface {
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userService struct {
	users pgrepo.UserRepository
}

func NewUserService(users pgrepo.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	const op = "UserService.List"

	rows, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	return rows, nil
}
