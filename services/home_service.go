package services

import (
	"context"
	"fmt"

	"social_games_backend/models"
	"social_games_backend/repository"
)

// HomeService backs the dashboard counters shown to a quiz owner.
type HomeService struct {
	repo repository.QuizRepository
}

func NewHomeService(repo repository.QuizRepository) *HomeService {
	return &HomeService{repo: repo}
}

func (s *HomeService) HomeInfo(ctx context.Context, ownerID int) (*models.HomeInfo, error) {
	stats, err := s.repo.OwnerStats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("owner stats: %w", err)
	}
	return &models.HomeInfo{Compatibility: *stats}, nil
}

func (s *HomeService) ActiveGames(ctx context.Context, ownerID int) (*models.ActiveGames, error) {
	games, err := s.repo.ActiveGamesToday(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("active games: %w", err)
	}
	var out models.ActiveGames
	out.Compatibility.TodaysActiveGames = games
	return &out, nil
}
