package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Leaderboard"

var exportHeader = []any{
	"Rank", "Player", "Team", "Wins", "Losses", "LP gained", "Score", "Label", "Initial rank", "Final rank",
}

type exportResult = results.OperationResult[[]byte, error]

// ExportLeaderboard renders the current standings as an XLSX workbook.
func (s *LeaderboardService) ExportLeaderboard(ctx context.Context, challengeID uuid.UUID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "ExportLeaderboard", challengeID.String(), func(ctx context.Context) (exportResult, error) {
		standings, err := s.getLeaderboardLogic(ctx, challengeID)
		if err != nil {
			return exportResult{}, err
		}
		if standings.IsFailure() {
			return results.FailureResult[[]byte, error](*standings.Failure), nil
		}

		data, err := BuildWorkbook(*standings.Success)
		if err != nil {
			return exportResult{}, fmt.Errorf("failed to build workbook: %w", err)
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	return unwrap(result, err)
}

// BuildWorkbook writes one header row and one row per standing.
func BuildWorkbook(rows []leaderboarddomain.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), exportSheet); err != nil {
		return nil, err
	}

	if err := setRow(f, 1, exportHeader); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := []any{
			i + 1,
			row.Name,
			deref(row.Team),
			row.Wins,
			row.Losses,
			row.LPGained,
			row.Key(),
			row.RankLabel(),
			deref(row.InitialRank),
			deref(row.FinalRank),
		}
		if err := setRow(f, i+2, cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, rowNum int, cells []any) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, axis, &cells)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
