package users

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]ProfileResponse, int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(user)
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProfile(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, page, limit int) ([]ProfileResponse, int64, error) {
	list, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProfileResponse, 0, len(list))
	for i := range list {
		out = append(out, ToProfileResponse(&list[i]))
	}
	return out, total, nil
}
