package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ratewise/ratewise/internal/anomaly"
	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/currency"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/profit"
	"github.com/ratewise/ratewise/internal/report"
	"github.com/ratewise/ratewise/internal/repository"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication & settings
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.User, error)

	// Projects
	CreateProject(ctx context.Context, userID string, req models.CreateProjectRequest) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)

	// Time entries
	CreateTimeEntry(ctx context.Context, userID string, req models.CreateTimeEntryRequest) (*models.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, userID, entryID string, req models.UpdateTimeEntryRequest) (*models.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, userID, entryID string) error
	ListTimeEntries(ctx context.Context, userID, projectID, from, to string) ([]models.TimeEntry, error)

	// Cost entries
	CreateCostEntry(ctx context.Context, userID string, req models.CreateCostEntryRequest) (*models.CostEntry, error)
	DeleteCostEntry(ctx context.Context, userID, entryID string) error
	ListCostEntries(ctx context.Context, userID, projectID, from, to string) ([]models.CostEntry, error)

	// Profitability & anomaly detection
	ComputeProfitability(ctx context.Context, userID, projectID, from, to string) (*models.ProfitabilityResponse, error)
	DetectAnomalies(ctx context.Context, userID, projectID string) ([]models.FlagDelta, error)
	ListFlags(ctx context.Context, userID, projectID string) ([]models.Flag, error)
	DismissFlag(ctx context.Context, userID, flagID string) (*models.Flag, error)

	// AI action queue
	ListAiActions(ctx context.Context, userID, status string) ([]models.AiAction, error)
	TransitionAiAction(ctx context.Context, userID, actionID, target string) (*models.AiAction, error)

	// Weekly reports
	AggregateWeeklyReport(ctx context.Context, userID, weekStart string) (*models.WeeklyReportResponse, error)
	ListWeeklyReports(ctx context.Context, userID string, limit int) ([]models.WeeklyReport, error)

	// Timesheet workflow
	CreateTimesheet(ctx context.Context, userID string, req models.CreateTimesheetRequest) (*models.Timesheet, error)
	SubmitTimesheet(ctx context.Context, userID, timesheetID string, req models.SubmitTimesheetRequest) (*models.Timesheet, error)
	ReviewTimesheet(ctx context.Context, token string, req models.ReviewTimesheetRequest) (*models.Timesheet, error)

	// Share links
	CreateShareLink(ctx context.Context, userID string, req models.CreateShareLinkRequest) (*models.ShareLinkResponse, error)
	ResolveShareLink(ctx context.Context, token string) (*models.SharedView, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	normalizer    *currency.Normalizer
	calc          *profit.Calculator
	detector      *anomaly.Detector
	aggregator    *report.Aggregator
	anomalyCfg    anomaly.Settings
	logger        zerolog.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(
	repo repository.Repository,
	jwtSecret string,
	normalizer *currency.Normalizer,
	anomalyCfg anomaly.Settings,
	logger zerolog.Logger,
) Service {
	calc := profit.NewCalculator(normalizer)
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		normalizer:    normalizer,
		calc:          calc,
		detector:      anomaly.NewDetector(anomalyCfg),
		aggregator:    report.NewAggregator(calc),
		anomalyCfg:    anomalyCfg,
		logger:        logger,
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hashing password: %w", err))
	}

	user := &models.User{
		Email:    strings.ToLower(req.Email),
		Name:     req.Name,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation("user with this email already exists")
		}
		return nil, apperrors.Internal(fmt.Errorf("creating user: %w", err))
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting user: %w", err))
	}

	if user == nil {
		return nil, apperrors.Validation("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Validation("invalid email or password")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generating token: %w", err))
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.HourlyGoal != nil {
		user.HourlyGoal = *req.HourlyGoal
	}
	if req.Currency != "" {
		user.Currency = strings.ToUpper(req.Currency)
	}

	if err := s.repo.UpdateUserSettings(ctx, user.ID, user.HourlyGoal, user.Currency); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("updating settings: %w", err))
	}
	return user, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// getUser resolves the authenticated user's row. A missing row for an
// authenticated id is an internal inconsistency, not a caller error.
func (s *DefaultService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting user: %w", err))
	}
	if user == nil {
		return nil, apperrors.Internal(fmt.Errorf("authenticated user %s has no row", userID))
	}
	return user, nil
}

// getProject resolves a project with the ownership filter; absent and
// foreign are deliberately the same NOT_FOUND.
func (s *DefaultService) getProject(ctx context.Context, projectID, ownerID string) (*models.Project, error) {
	project, err := s.repo.GetProjectForOwner(ctx, projectID, ownerID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting project: %w", err))
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return project, nil
}

// parseDate parses a calendar date in the wire format.
func parseDate(value, field string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.Validation(fmt.Sprintf("%s must be a date in %s format", field, models.DateLayout))
	}
	return d, nil
}

// parseWeekStart parses a date and requires Monday alignment.
func parseWeekStart(value string) (time.Time, error) {
	d, err := parseDate(value, "weekStart")
	if err != nil {
		return time.Time{}, err
	}
	if !report.IsMonday(d) {
		return time.Time{}, apperrors.Validation("weekStart must be a Monday")
	}
	return d, nil
}
