package challengeservice

import (
	"log/slog"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dateLayouts are tried before natural language parsing.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseDate reads value as one of dateLayouts, then as an English phrase
// relative to now. The result is UTC.
func (s *ChallengeService) parseDate(field, value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	r, err := s.dates.Parse(strings.ToLower(value), now)
	if err != nil {
		s.logger.Debug("Natural date parse failed",
			slog.String("input", value),
			slog.Any("error", err),
		)
	}
	if r == nil {
		return time.Time{}, invalid(field, ErrInvalidDate)
	}
	return r.Time.UTC().Truncate(time.Minute), nil
}

// parseWindow validates the start and optional end of a challenge.
func (s *ChallengeService) parseWindow(startRaw, endRaw string, now time.Time) (time.Time, *time.Time, error) {
	start := now.UTC().Truncate(time.Minute)
	if strings.TrimSpace(startRaw) != "" {
		t, err := s.parseDate("start_at", startRaw, now)
		if err != nil {
			return time.Time{}, nil, err
		}
		start = t
	}

	if strings.TrimSpace(endRaw) == "" {
		return start, nil, nil
	}
	end, err := s.parseDate("end_at", endRaw, now)
	if err != nil {
		return time.Time{}, nil, err
	}
	if err := validateWindow(start, &end); err != nil {
		return time.Time{}, nil, err
	}
	return start, &end, nil
}

func validateWindow(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return invalid("end_at", ErrInvalidWindow)
	}
	return nil
}
