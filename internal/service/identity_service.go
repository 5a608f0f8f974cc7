package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type studentDirectory interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, name, email string) (*models.Student, error)
}

// IdentityDecision is the outcome of matching credentials against the roster.
type IdentityDecision string

// Identity decisions.
const (
	IdentityExisting IdentityDecision = "existing"
	IdentityCreate   IdentityDecision = "create"
	IdentityConflict IdentityDecision = "conflict"
)

// MatchIdentity decides how credentials resolve against the student list. The
// first record sharing the name or the email decides: it signs in when both
// fields match and is a conflict otherwise.
func MatchIdentity(students []models.Student, creds models.Credentials) (IdentityDecision, *models.Student) {
	for i := range students {
		s := students[i]
		nameMatch := s.Name == creds.Name
		emailMatch := s.Email == creds.Email
		if !nameMatch && !emailMatch {
			continue
		}
		if nameMatch && emailMatch {
			return IdentityExisting, &s
		}
		return IdentityConflict, nil
	}
	return IdentityCreate, nil
}

// IdentityService merges login and registration into one step.
type IdentityService struct {
	dir       studentDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIdentityService constructs IdentityService.
func NewIdentityService(dir studentDirectory, validate *validator.Validate, logger *zap.Logger) *IdentityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{dir: dir, validator: validate, logger: logger}
}

// Resolve signs in the matching student or registers a new one.
func (s *IdentityService) Resolve(ctx context.Context, creds models.Credentials) (*models.Student, IdentityDecision, error) {
	if err := s.validator.Struct(creds); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and email are required")
	}

	students, err := s.dir.ListStudents(ctx)
	if err != nil {
		return nil, "", appErrors.Transport(err, "sign in failed, please try again later")
	}

	decision, existing := MatchIdentity(students, creds)
	switch decision {
	case IdentityExisting:
		s.logger.Info("student signed in", zap.Int("student_id", existing.ID))
		return existing, decision, nil
	case IdentityConflict:
		return nil, decision, appErrors.Clone(appErrors.ErrConflict, "name or email already exists but does not match")
	}

	created, err := s.dir.CreateStudent(ctx, creds.Name, creds.Email)
	if err != nil {
		return nil, "", appErrors.Transport(err, "sign in failed, please try again later")
	}
	s.logger.Info("student registered", zap.Int("student_id", created.ID))
	return created, decision, nil
}
