package trackingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/events"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"github.com/soloq-club/soloq-tracker/pkg/eventbus"
	"github.com/soloq-club/soloq-tracker/pkg/handlerwrapper"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
)

type snapshotResult = results.OperationResult[*SnapshotResult, error]

// SnapshotChallenge stores the current solo queue rank of every active player.
func (s *TrackingService) SnapshotChallenge(ctx context.Context, userID string, challengeID uuid.UUID) (*SnapshotResult, error) {
	result, err := withTelemetry(s, ctx, "SnapshotChallenge", challengeID.String(), func(ctx context.Context) (snapshotResult, error) {
		if err := s.challenges.Authorize(ctx, userID, challengeID); err != nil {
			return failureOrError[*SnapshotResult](err)
		}
		return s.snapshot(ctx, challengeID)
	})
	return unwrap(result, err)
}

// SystemSnapshot stores a snapshot batch without a caller role check.
func (s *TrackingService) SystemSnapshot(ctx context.Context, challengeID uuid.UUID) (*SnapshotResult, error) {
	result, err := withTelemetry(s, ctx, "SystemSnapshot", challengeID.String(), func(ctx context.Context) (snapshotResult, error) {
		if _, err := s.challenges.GetChallenge(ctx, challengeID); err != nil {
			return failureOrError[*SnapshotResult](err)
		}
		return s.snapshot(ctx, challengeID)
	})
	return unwrap(result, err)
}

func (s *TrackingService) snapshot(ctx context.Context, challengeID uuid.UUID) (snapshotResult, error) {
	players, err := s.challenges.ActivePlayers(ctx, challengeID)
	if err != nil {
		return snapshotResult{}, fmt.Errorf("failed to list players: %w", err)
	}
	res, err := s.snapshotPlayers(ctx, challengeID, players, s.stamp())
	if err != nil {
		return snapshotResult{}, err
	}
	return results.SuccessResult[*SnapshotResult, error](res), nil
}

// stamp is shared by every row of a batch so one pass reads as one point in time.
func (s *TrackingService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// snapshotPlayers fetches and stores one snapshot per player. Unranked players are
// skipped and per-player lookup failures are counted. A rejected API key aborts the batch.
func (s *TrackingService) snapshotPlayers(ctx context.Context, challengeID uuid.UUID, players []Player, takenAt time.Time) (*SnapshotResult, error) {
	res := &SnapshotResult{ChallengeID: challengeID, TakenAt: takenAt}
	rows := make([]trackingdb.RankSnapshot, 0, len(players))

	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := s.riot.RankedSoloEntry(ctx, p.Region, p.PUUID)
		if err != nil {
			if errors.Is(err, riotclient.ErrForbidden) {
				return nil, err
			}
			s.logger.WarnContext(ctx, "Rank lookup failed",
				slog.String("challenge_id", challengeID.String()),
				slog.String("player_id", p.ID.String()),
				slog.Any("error", err),
			)
			res.Errors++
			continue
		}
		if entry == nil {
			res.Skipped++
			continue
		}
		rows = append(rows, trackingdb.RankSnapshot{
			ChallengeID: challengeID,
			PlayerID:    p.ID,
			Tier:        entry.Tier,
			Division:    entry.Division,
			LP:          entry.LP,
			TakenAt:     takenAt,
		})
	}

	inserted, err := s.repo.InsertSnapshots(ctx, nil, rows)
	if err != nil {
		return nil, err
	}
	res.Inserted = inserted

	s.logger.InfoContext(ctx, "Snapshots recorded",
		slog.String("challenge_id", challengeID.String()),
		slog.Int("inserted", res.Inserted),
		slog.Int("skipped", res.Skipped),
		slog.Int("errors", res.Errors),
	)
	s.publishRecorded(ctx, res)
	return res, nil
}

// publishRecorded announces a stored batch. Publish failures are logged only.
func (s *TrackingService) publishRecorded(ctx context.Context, res *SnapshotResult) {
	if s.publisher == nil {
		return
	}
	payload := events.RankSnapshotsRecordedPayloadV1{
		ChallengeID: res.ChallengeID,
		Inserted:    res.Inserted,
		RecordedAt:  res.TakenAt,
	}

	// Each copy needs its own message id: JetStream drops repeated ids within a stream.
	msg, err := handlerwrapper.NewMessage(ctx, events.RankSnapshotsRecordedV1, payload)
	if err == nil {
		err = s.publisher.Publish(events.RankSnapshotsRecordedV1, msg)
	}
	if err == nil {
		msg, err = handlerwrapper.NewMessage(ctx, events.RankSnapshotsRecordedV1, payload)
	}
	if err == nil {
		err = eventbus.PublishScoped(s.publisher, events.RankSnapshotsRecordedV1, res.ChallengeID.String(), msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish snapshot event",
			slog.String("challenge_id", res.ChallengeID.String()),
			slog.Any("error", err),
		)
	}
}

func failureOrError[S any](err error) (results.OperationResult[S, error], error) {
	if isDomainFailure(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}
