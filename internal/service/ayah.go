package service

import (
	"context"
	"fmt"
)

// AyahService exposes read-only corpus queries to the delivery layer.
type AyahService struct {
	repo AyahRepository
}

func NewAyahService(repo AyahRepository) *AyahService {
	return &AyahService{repo: repo}
}

// GetPageNumbers returns the distinct pages available for quizzing.
func (s *AyahService) GetPageNumbers(ctx context.Context) ([]int, error) {
	pages, err := s.repo.GetPageNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("get page numbers: %w", err)
	}
	return pages, nil
}
