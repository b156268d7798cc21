package challengeservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/uptrace/bun"
)

type (
	challengeResult     = results.OperationResult[*ChallengeView, error]
	challengeListResult = results.OperationResult[[]ChallengeView, error]
	emptyResult         = results.OperationResult[struct{}, error]
)

// CreateChallenge validates the input, stores the challenge and makes the
// creator its owner.
func (s *ChallengeService) CreateChallenge(ctx context.Context, userID string, input CreateChallengeInput) (*ChallengeView, error) {
	createTx := func(ctx context.Context, db bun.IDB) (challengeResult, error) {
		return s.createChallengeLogic(ctx, db, userID, input)
	}

	result, err := withTelemetry(s, ctx, "CreateChallenge", userID, func(ctx context.Context) (challengeResult, error) {
		return runInTx(s, ctx, createTx)
	})
	return unwrap(result, err)
}

func (s *ChallengeService) createChallengeLogic(ctx context.Context, db bun.IDB, userID string, input CreateChallengeInput) (challengeResult, error) {
	if userID == "" {
		return results.FailureResult[*ChallengeView, error](ErrForbidden), nil
	}

	name, err := validateName(input.Name)
	if err != nil {
		return results.FailureResult[*ChallengeView, error](err), nil
	}

	start, end, err := s.parseWindow(input.StartAt, input.EndAt, s.now())
	if err != nil {
		return results.FailureResult[*ChallengeView, error](err), nil
	}

	challenge := &challengedb.Challenge{
		ID:          uuid.New(),
		Name:        name,
		RankingRule: rankedtypes.ParseRule(input.RankingRule).String(),
		Visibility:  string(rankedtypes.ParseVisibility(input.Visibility)),
		OwnerID:     userID,
		StartAt:     start,
		EndAt:       end,
	}
	if err := s.repo.CreateChallenge(ctx, db, challenge); err != nil {
		return challengeResult{}, err
	}

	if err := s.repo.AddMember(ctx, db, &challengedb.Member{
		ChallengeID: challenge.ID,
		UserID:      userID,
		Role:        string(rankedtypes.RoleOwner),
	}); err != nil {
		return challengeResult{}, err
	}

	return results.SuccessResult[*ChallengeView, error](toChallengeView(challenge)), nil
}

// GetChallenge returns a single challenge.
func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*ChallengeView, error) {
	result, err := withTelemetry(s, ctx, "GetChallenge", challengeID.String(), func(ctx context.Context) (challengeResult, error) {
		challenge, err := s.loadChallenge(ctx, nil, challengeID)
		if err != nil {
			return failureOrError[*ChallengeView](err)
		}
		return results.SuccessResult[*ChallengeView, error](toChallengeView(challenge)), nil
	})
	return unwrap(result, err)
}

// ListChallenges returns challenges newest first.
func (s *ChallengeService) ListChallenges(ctx context.Context, opts ListChallengesInput) ([]ChallengeView, error) {
	result, err := withTelemetry(s, ctx, "ListChallenges", opts.Visibility, func(ctx context.Context) (challengeListResult, error) {
		rows, err := s.repo.ListChallenges(ctx, nil, challengedb.ListOptions{
			Visibility: opts.Visibility,
			Limit:      opts.Limit,
		})
		if err != nil {
			return challengeListResult{}, err
		}
		views := make([]ChallengeView, 0, len(rows))
		for i := range rows {
			views = append(views, *toChallengeView(&rows[i]))
		}
		return results.SuccessResult[[]ChallengeView, error](views), nil
	})
	return unwrap(result, err)
}

// UpdateChallenge applies patch on top of the stored challenge. Only owners
// and admins may edit.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, userID string, challengeID uuid.UUID, patch UpdateChallengeInput) (*ChallengeView, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (challengeResult, error) {
		return s.updateChallengeLogic(ctx, db, userID, challengeID, patch)
	}

	result, err := withTelemetry(s, ctx, "UpdateChallenge", challengeID.String(), func(ctx context.Context) (challengeResult, error) {
		return runInTx(s, ctx, updateTx)
	})
	return unwrap(result, err)
}

func (s *ChallengeService) updateChallengeLogic(ctx context.Context, db bun.IDB, userID string, challengeID uuid.UUID, patch UpdateChallengeInput) (challengeResult, error) {
	challenge, err := s.requireRole(ctx, db, challengeID, userID, rankedtypes.Role.CanManage)
	if err != nil {
		return failureOrError[*ChallengeView](err)
	}

	if err := s.applyPatch(challenge, patch); err != nil {
		return results.FailureResult[*ChallengeView, error](err), nil
	}

	if err := s.repo.UpdateChallenge(ctx, db, challenge); err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return results.FailureResult[*ChallengeView, error](ErrChallengeNotFound), nil
		}
		return challengeResult{}, err
	}
	return results.SuccessResult[*ChallengeView, error](toChallengeView(challenge)), nil
}

// applyPatch merges patch into challenge and validates the merged window.
func (s *ChallengeService) applyPatch(challenge *challengedb.Challenge, patch UpdateChallengeInput) error {
	now := s.now()
	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return err
		}
		challenge.Name = name
	}
	if patch.RankingRule != nil {
		challenge.RankingRule = rankedtypes.ParseRule(*patch.RankingRule).String()
	}
	if patch.Visibility != nil {
		challenge.Visibility = string(rankedtypes.ParseVisibility(*patch.Visibility))
	}
	if patch.StartAt != nil {
		start, err := s.parseDate("start_at", *patch.StartAt, now)
		if err != nil {
			return err
		}
		challenge.StartAt = start
	}
	if patch.EndAt != nil {
		if strings.TrimSpace(*patch.EndAt) == "" {
			challenge.EndAt = nil
		} else {
			end, err := s.parseDate("end_at", *patch.EndAt, now)
			if err != nil {
				return err
			}
			challenge.EndAt = &end
		}
	}
	return validateWindow(challenge.StartAt, challenge.EndAt)
}

// DeleteChallenge removes a challenge and everything attached to it. Only the
// owner may delete.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, userID string, challengeID uuid.UUID) error {
	deleteTx := func(ctx context.Context, db bun.IDB) (emptyResult, error) {
		if _, err := s.requireRole(ctx, db, challengeID, userID, isOwner); err != nil {
			return failureOrError[struct{}](err)
		}
		if err := s.repo.DeleteChallenge(ctx, db, challengeID); err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return results.FailureResult[struct{}, error](ErrChallengeNotFound), nil
			}
			return emptyResult{}, err
		}
		return results.SuccessResult[struct{}, error](struct{}{}), nil
	}

	result, err := withTelemetry(s, ctx, "DeleteChallenge", challengeID.String(), func(ctx context.Context) (emptyResult, error) {
		return runInTx(s, ctx, deleteTx)
	})
	_, err = unwrap(result, err)
	return err
}

// Authorize returns nil when userID is an owner or admin of the challenge.
func (s *ChallengeService) Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error {
	_, err := s.requireRole(ctx, nil, challengeID, userID, rankedtypes.Role.CanManage)
	return err
}

// loadChallenge maps repository misses to ErrChallengeNotFound.
func (s *ChallengeService) loadChallenge(ctx context.Context, db bun.IDB, challengeID uuid.UUID) (*challengedb.Challenge, error) {
	challenge, err := s.repo.GetChallenge(ctx, db, challengeID)
	if err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return challenge, nil
}

// requireRole loads the challenge and checks the caller's membership against allowed.
func (s *ChallengeService) requireRole(
	ctx context.Context,
	db bun.IDB,
	challengeID uuid.UUID,
	userID string,
	allowed func(rankedtypes.Role) bool,
) (*challengedb.Challenge, error) {
	challenge, err := s.loadChallenge(ctx, db, challengeID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrForbidden
	}

	member, err := s.repo.GetMember(ctx, db, challengeID, userID)
	if err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if !allowed(rankedtypes.Role(member.Role)) {
		return nil, ErrForbidden
	}
	return challenge, nil
}

func isOwner(r rankedtypes.Role) bool { return r == rankedtypes.RoleOwner }

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) < minNameLength {
		return "", invalid("name", ErrInvalidName)
	}
	return name, nil
}

// isDomainFailure reports errors that are returned as failure results rather
// than infrastructure errors.
func isDomainFailure(err error) bool {
	switch {
	case errors.Is(err, ErrChallengeNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNoPlayers),
		errors.Is(err, ErrTooManyPlayers),
		IsValidation(err):
		return true
	default:
		return false
	}
}

func failureOrError[S any](err error) (results.OperationResult[S, error], error) {
	if isDomainFailure(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}
