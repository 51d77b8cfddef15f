package service

import (
	"context"
	"errors"
	"time"

	"habitflow/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrMissionNotFound    = errors.New("mission not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrGoalNotFound       = errors.New("goal not found")
	ErrPrizeNotFound      = errors.New("prize not found")

	// ErrNoMissionOfDay means the catalog holds no candidate for today:
	// nothing scheduled and no organic missions to fall back to. Callers
	// treat it as "nothing to assign", not a failure.
	ErrNoMissionOfDay = errors.New("no mission of the day")

	ErrAlreadyCompleted    = errors.New("assignment already completed")
	ErrPrizeAlreadyClaimed = errors.New("prize already claimed")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

type UserServiceI interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string, timezoneOffset int) error
	SetSponsorOptIn(ctx context.Context, id uuid.UUID, optIn bool) error
	DeactivateInactive(ctx context.Context) error
}

type SpecialMissionServiceI interface {
	CreateMission(ctx context.Context, mission *model.SpecialMission) error
	ScheduleMission(ctx context.Context, missionID uuid.UUID, scheduledDate time.Time) error
	MissionOfDay(ctx context.Context, at time.Time) (*model.SpecialMission, error)
	RunAssignmentPass(ctx context.Context) error
	RunExpirationSweep(ctx context.Context) error
	AssignFirstMission(ctx context.Context, userID uuid.UUID) error
	Complete(ctx context.Context, assignmentID int64) error
	LatestStatus(ctx context.Context, userID uuid.UUID) (*model.LatestAssignment, error)
}

type GoalServiceI interface {
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error
	CreateMission(ctx context.Context, userID uuid.UUID, mission *model.Mission) error
	ListMissions(ctx context.Context, userID, goalID uuid.UUID) ([]*model.Mission, error)
	CompleteMission(ctx context.Context, userID, goalID, missionID uuid.UUID) error
	DeleteMission(ctx context.Context, userID, goalID, missionID uuid.UUID) error
}

type PrizeServiceI interface {
	CreatePrize(ctx context.Context, prize *model.Prize) error
	ListPrizes(ctx context.Context, userID uuid.UUID) ([]*model.Prize, error)
	ClaimPrize(ctx context.Context, userID, prizeID uuid.UUID) error
	DeletePrize(ctx context.Context, userID, prizeID uuid.UUID) error
}

type QuestionServiceI interface {
	CreateQuestion(ctx context.Context, question *model.Question) error
	ListQuestions(ctx context.Context) ([]*model.Question, error)
	Answer(ctx context.Context, answer *model.Answer) error
	ListAnswers(ctx context.Context, userID uuid.UUID) ([]*model.Answer, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, name string, timezoneOffset int) error
	UpdateSponsorOptIn(ctx context.Context, id uuid.UUID, optIn bool) error
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
	DeactivateInactiveUsers(ctx context.Context, cutoff time.Time) (int64, error)
}

type SpecialMissionRepository interface {
	CreateSpecialMission(ctx context.Context, mission *model.SpecialMission) error
	GetSpecialMission(ctx context.Context, id uuid.UUID) (*model.SpecialMission, error)
	ListSpecialMissions(ctx context.Context) ([]*model.SpecialMission, error)
	ListNonSponsoredMissions(ctx context.Context) ([]*model.SpecialMission, error)
	CreateSponsorSchedule(ctx context.Context, missionID uuid.UUID, scheduledDate time.Time) error
	GetScheduledMission(ctx context.Context, day time.Time) (*model.SpecialMission, error)
	GetDailyPick(ctx context.Context, day time.Time) (*model.SpecialMission, error)
	CreateDailyPick(ctx context.Context, day time.Time, missionID uuid.UUID) (*model.SpecialMission, error)
	AssignMission(ctx context.Context, userID, missionID uuid.UUID, availableAt, windowFrom, windowTo time.Time) error
	ExpireAssignments(ctx context.Context, timezoneOffset int, localMidnight time.Time) (int64, error)
	CompleteAssignment(ctx context.Context, assignmentID int64, completedAt time.Time) error
	GetLatestAssignment(ctx context.Context, userID uuid.UUID) (*model.MissionAssignment, *model.SpecialMission, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListActiveUsers(ctx context.Context) ([]*model.User, error)
	ListTimezoneOffsets(ctx context.Context) ([]int, error)
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoal(ctx context.Context, id uuid.UUID) (*model.Goal, error)
	ListGoalsByUser(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error
	CreateMission(ctx context.Context, mission *model.Mission) error
	ListMissionsByGoal(ctx context.Context, goalID uuid.UUID) ([]*model.Mission, error)
	RecordMissionCompletion(ctx context.Context, missionID uuid.UUID, day time.Time) error
	DeleteMission(ctx context.Context, goalID, missionID uuid.UUID) error
}

type PrizeRepository interface {
	CreatePrize(ctx context.Context, prize *model.Prize) error
	ListPrizesByUser(ctx context.Context, userID uuid.UUID) ([]*model.Prize, error)
	ClaimPrize(ctx context.Context, userID, prizeID uuid.UUID, claimedAt time.Time) error
	DeletePrize(ctx context.Context, userID, prizeID uuid.UUID) error
}

type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *model.Question) error
	ListQuestions(ctx context.Context) ([]*model.Question, error)
	SaveAnswer(ctx context.Context, answer *model.Answer) error
	ListAnswersByUser(ctx context.Context, userID uuid.UUID) ([]*model.Answer, error)
}
