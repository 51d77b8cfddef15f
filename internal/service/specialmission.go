package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
	"habitflow/pkg/clock"
	"habitflow/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryWindow bounds the random local time of day at which a mission
// becomes available.
type DeliveryWindow struct {
	FromHour int
	ToHour   int
}

func DefaultDeliveryWindow() DeliveryWindow {
	return DeliveryWindow{FromHour: 10, ToHour: 22}
}

type SpecialMissionService struct {
	repo   SpecialMissionRepository
	window DeliveryWindow
}

func NewSpecialMissionService(repo SpecialMissionRepository, window DeliveryWindow) *SpecialMissionService {
	return &SpecialMissionService{
		repo:   repo,
		window: window,
	}
}

func (s *SpecialMissionService) CreateMission(ctx context.Context, mission *model.SpecialMission) error {
	if mission.ID == uuid.Nil {
		mission.ID = uuid.New()
	}
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now().UTC()
	}

	err := s.repo.CreateSpecialMission(ctx, mission)
	if err != nil {
		return fmt.Errorf("failed to create special mission: %w", err)
	}
	return nil
}

func (s *SpecialMissionService) ScheduleMission(ctx context.Context, missionID uuid.UUID, scheduledDate time.Time) error {
	_, err := s.repo.GetSpecialMission(ctx, missionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMissionNotFound
		}
		return err
	}

	err = s.repo.CreateSponsorSchedule(ctx, missionID, clock.UTCDay(scheduledDate))
	if err != nil {
		return fmt.Errorf("failed to schedule mission: %w", err)
	}
	return nil
}

// MissionOfDay resolves the single mission offered on the UTC calendar day
// containing at. The sponsor schedule wins; otherwise the memoized daily pick
// is reused; otherwise a random non-sponsored mission is chosen and persisted
// so later calls that day agree. Both the cron pass and the registration
// bootstrap go through here.
func (s *SpecialMissionService) MissionOfDay(ctx context.Context, at time.Time) (*model.SpecialMission, error) {
	day := clock.UTCDay(at)

	mission, err := s.repo.GetScheduledMission(ctx, day)
	if err == nil {
		return mission, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up sponsor schedule: %w", err)
	}

	mission, err = s.repo.GetDailyPick(ctx, day)
	if err == nil {
		return mission, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up daily pick: %w", err)
	}

	candidates, err := s.repo.ListNonSponsoredMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list non-sponsored missions: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoMissionOfDay
	}

	chosen := candidates[rand.Intn(len(candidates))]

	// CreateDailyPick returns whichever pick actually landed, so a losing
	// concurrent run still reports the shared mission.
	mission, err = s.repo.CreateDailyPick(ctx, day, chosen.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to persist daily pick: %w", err)
	}

	return mission, nil
}

// RunAssignmentPass assigns the mission of the day to every eligible active
// user who does not already hold an assignment in their current local day.
// It is re-invoked on a short interval; per-user failures are logged and
// skipped so one bad row never stalls the whole pass.
func (s *SpecialMissionService) RunAssignmentPass(ctx context.Context) error {
	log := logger.Logger()
	now := time.Now().UTC()

	mission, err := s.MissionOfDay(ctx, now)
	if err != nil {
		if errors.Is(err, ErrNoMissionOfDay) {
			log.Debug("assignment pass: no mission of the day, nothing to assign")
			return nil
		}
		return fmt.Errorf("failed to resolve mission of the day: %w", err)
	}

	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	var assigned, skipped int
	for _, user := range users {
		if mission.IsPartnership && !user.AcceptsSponsoredMissions() {
			skipped++
			continue
		}

		midnight := clock.LocalMidnight(now, user.TimezoneOffset)
		from, to := clock.DayWindow(midnight)
		availableAt := clock.RandomDeliveryTime(midnight, s.window.FromHour, s.window.ToHour)

		err := s.repo.AssignMission(ctx, user.ID, mission.ID, availableAt, from, to)
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyAssigned) {
				continue
			}
			log.Error("assignment pass: failed to assign mission",
				zap.String("user_id", user.ID.String()),
				zap.String("mission_id", mission.ID.String()),
				zap.Error(err))
			continue
		}
		assigned++
	}

	log.Info("assignment pass finished",
		zap.String("mission_id", mission.ID.String()),
		zap.Int("users", len(users)),
		zap.Int("assigned", assigned),
		zap.Int("opted_out", skipped))

	return nil
}

// AssignFirstMission is the registration bootstrap: it gives a brand-new user
// today's mission immediately, with available_at placed just before now so
// the mission shows up without waiting for a random daytime slot.
func (s *SpecialMissionService) AssignFirstMission(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()

	mission, err := s.MissionOfDay(ctx, now)
	if err != nil {
		if errors.Is(err, ErrNoMissionOfDay) {
			return nil
		}
		return fmt.Errorf("failed to resolve mission of the day: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if mission.IsPartnership && !user.AcceptsSponsoredMissions() {
		return nil
	}

	midnight := clock.LocalMidnight(now, user.TimezoneOffset)
	from, to := clock.DayWindow(midnight)
	availableAt := now.Add(-time.Minute)

	err = s.repo.AssignMission(ctx, user.ID, mission.ID, availableAt, from, to)
	if err != nil && !errors.Is(err, repository.ErrAlreadyAssigned) {
		return fmt.Errorf("failed to assign first mission: %w", err)
	}

	return nil
}

// RunExpirationSweep stamps expired_at on every assignment that was never
// completed and whose availability window has passed, per user timezone. A
// single now snapshot is used for the whole sweep so every timezone's
// midnight is computed against the same instant.
func (s *SpecialMissionService) RunExpirationSweep(ctx context.Context) error {
	log := logger.Logger()
	now := time.Now().UTC()

	offsets, err := s.repo.ListTimezoneOffsets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list timezone offsets: %w", err)
	}

	var total int64
	for _, offset := range offsets {
		midnight := clock.LocalMidnight(now, offset)

		expired, err := s.repo.ExpireAssignments(ctx, offset, midnight)
		if err != nil {
			log.Error("expiration sweep: failed for timezone",
				zap.Int("timezone_offset", offset),
				zap.Error(err))
			continue
		}
		total += expired
	}

	log.Info("expiration sweep finished",
		zap.Int("timezones", len(offsets)),
		zap.Int64("expired", total))

	return nil
}

func (s *SpecialMissionService) Complete(ctx context.Context, assignmentID int64) error {
	err := s.repo.CompleteAssignment(ctx, assignmentID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrAssignmentNotFound
		case errors.Is(err, repository.ErrAlreadyCompleted):
			return ErrAlreadyCompleted
		}
		return fmt.Errorf("failed to complete assignment: %w", err)
	}
	return nil
}

func (s *SpecialMissionService) ListMissions(ctx context.Context) ([]*model.SpecialMission, error) {
	missions, err := s.repo.ListSpecialMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list special missions: %w", err)
	}
	return missions, nil
}

// LatestStatus returns the user's most recent assignment annotated with the
// derived state the client renders.
func (s *SpecialMissionService) LatestStatus(ctx context.Context, userID uuid.UUID) (*model.LatestAssignment, error) {
	assignment, mission, err := s.repo.GetLatestAssignment(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	latest := &model.LatestAssignment{
		Assignment: *assignment,
		Mission:    *mission,
	}

	now := time.Now().UTC()
	switch {
	case assignment.CompletedAt != nil:
		latest.Status = model.AssignmentCompleted
		latest.Note = fmt.Sprintf("completed on %s", assignment.CompletedAt.UTC().Format("2006-01-02"))
	case assignment.ExpiredAt != nil:
		latest.Status = model.AssignmentExpired
	case !now.Before(assignment.AvailableAt):
		latest.Status = model.AssignmentAvailable
	default:
		latest.Status = model.AssignmentPending
	}

	return latest, nil
}
