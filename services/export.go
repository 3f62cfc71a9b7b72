package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"social_games_backend/models"

	"github.com/xuri/excelize/v2"
)

const (
	leaderboardSheet = "Leaderboard"
	summarySheet     = "Summary"
)

// ExportResults renders every result of a quiz as an xlsx workbook ranked by
// score. It fails the same way Leaderboard does.
func (s *QuizService) ExportResults(ctx context.Context, code string) ([]byte, error) {
	board, err := s.Leaderboard(ctx, code)
	if err != nil {
		return nil, err
	}
	return buildResultsWorkbook(board)
}

func buildResultsWorkbook(board *models.Leaderboard) ([]byte, error) {
	ranked := make([]models.QuizResult, len(board.AllResults))
	copy(ranked, board.AllResults)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].QuizTotal != ranked[j].QuizTotal {
			return ranked[i].QuizTotal > ranked[j].QuizTotal
		}
		if !ranked[i].Created.Equal(ranked[j].Created) {
			return ranked[i].Created.Before(ranked[j].Created)
		}
		return ranked[i].ID < ranked[j].ID
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leaderboardSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Rank", "User", "Score", "Submitted At"}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range ranked {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{i + 1, r.User, r.QuizTotal, r.Created.UTC().Format(time.RFC3339)}
		if err := f.SetSheetRow(leaderboardSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Title", board.Quiz.Title},
		{"Quiz Code", board.Quiz.QuizCode},
		{"Responses", board.Quiz.NoOfResponses},
		{"Created", board.Quiz.Created.UTC().Format(time.RFC3339)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
