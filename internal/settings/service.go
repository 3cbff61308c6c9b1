package settings

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error) {
	if err := s.validate.Struct(req); err != nil {
		return Settings{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}
	if err := s.repo.Update(ctx, req); err != nil {
		return Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return s.repo.Get(ctx)
}
