package medicine

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a catalog entry. The ID is the caller-supplied barcode payload;
// entries cannot be changed afterwards.
func (s *Service) Create(ctx context.Context, m *Medicine) error {
	m.ID = strings.TrimSpace(m.ID)
	m.Name = strings.TrimSpace(m.Name)
	if m.ID == "" {
		return fmt.Errorf("id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.repo.GetByID(ctx, m.ID); err == nil {
		return fmt.Errorf("medicine %s already exists", m.ID)
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id string) (*Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Medicine, error) {
	return s.repo.List(ctx)
}
