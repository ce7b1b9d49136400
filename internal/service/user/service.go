package user

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/repository"
	"habitz/internal/util"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidTimezone    = errors.New("unknown timezone")
	ErrInvalidGoals       = errors.New("invalid nutrition goals")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	UpdateSettings(ctx context.Context, u *model.User) error
}

type Service struct {
	users     UserStore
	jwtSecret string
	logger    *zap.Logger
}

func NewService(users UserStore, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates an account with the stock goal defaults.
func (s *Service) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:            email,
		Username:         username,
		PasswordHash:     hash,
		Timezone:         model.DefaultTimezone,
		DailyCalorieGoal: 2000,
		ProteinGoalPct:   30,
		CarbGoalPct:      40,
		FatGoalPct:       30,
		DefaultFastHours: 16,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		// a concurrent register can slip past the FindByEmail check and
		// land on the email unique constraint instead
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("User registered", zap.Int("user_id", u.ID))
	return u, nil
}

// Login checks credentials and mints a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !util.CheckPassword(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Get loads a user by ID.
func (s *Service) Get(ctx context.Context, id int) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type SettingsUpdate struct {
	Timezone         *string `json:"timezone"`
	DailyCalorieGoal *int    `json:"daily_calorie_goal"`
	ProteinGoalPct   *int    `json:"protein_goal_pct"`
	CarbGoalPct      *int    `json:"carb_goal_pct"`
	FatGoalPct       *int    `json:"fat_goal_pct"`
	DefaultFastHours *int    `json:"default_fast_hours"`
}

// UpdateSettings applies a partial settings change. Timezone names are
// validated against the tz database before they are stored.
func (s *Service) UpdateSettings(ctx context.Context, u *model.User, upd SettingsUpdate) error {
	if upd.Timezone != nil {
		if _, err := time.LoadLocation(*upd.Timezone); err != nil {
			return ErrInvalidTimezone
		}
		u.Timezone = *upd.Timezone
	}
	if upd.DailyCalorieGoal != nil {
		if *upd.DailyCalorieGoal < 0 {
			return ErrInvalidGoals
		}
		u.DailyCalorieGoal = *upd.DailyCalorieGoal
	}
	if upd.ProteinGoalPct != nil {
		u.ProteinGoalPct = *upd.ProteinGoalPct
	}
	if upd.CarbGoalPct != nil {
		u.CarbGoalPct = *upd.CarbGoalPct
	}
	if upd.FatGoalPct != nil {
		u.FatGoalPct = *upd.FatGoalPct
	}
	if u.ProteinGoalPct < 0 || u.CarbGoalPct < 0 || u.FatGoalPct < 0 ||
		u.ProteinGoalPct+u.CarbGoalPct+u.FatGoalPct > 100 {
		return ErrInvalidGoals
	}
	if upd.DefaultFastHours != nil {
		if *upd.DefaultFastHours <= 0 || *upd.DefaultFastHours > 72 {
			return ErrInvalidGoals
		}
		u.DefaultFastHours = *upd.DefaultFastHours
	}

	return s.users.UpdateSettings(ctx, u)
}
