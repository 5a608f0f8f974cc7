package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type sessionRepository interface {
	Get(ctx context.Context, key string) (*models.Student, error)
	Put(ctx context.Context, key string, student models.Student) error
	Delete(ctx context.Context, key string) error
}

type studentLister interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
}

// Session restore results.
const (
	RestoreNone     = "none"
	RestoreValid    = "restored"
	RestoreNotFound = "not_found"
	RestoreFailed   = "failed"
)

// SessionService persists the signed-in identity under one well-known key and
// re-validates it against the directory before trusting it.
type SessionService struct {
	repo     sessionRepository
	students studentLister
	key      string
	metrics  *MetricsService
	logger   *zap.Logger

	// written is set once Save or Clear has run; a restore settling after
	// that leaves the store alone.
	mu      sync.Mutex
	written bool
}

// NewSessionService constructs SessionService.
func NewSessionService(repo sessionRepository, students studentLister, key string, metrics *MetricsService, logger *zap.Logger) *SessionService {
	if key == "" {
		key = "courseSelectionUser"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, students: students, key: key, metrics: metrics, logger: logger}
}

// Restore returns the persisted identity if the directory still knows it.
// Every failure degrades to signed-out and drops the persisted record; none
// is reported to the caller.
func (s *SessionService) Restore(ctx context.Context) *models.Student {
	saved, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, appErrors.ErrSessionMiss) {
			s.metrics.RecordSessionRestore(RestoreNone)
			return nil
		}
		s.logger.Info("session record unreadable", zap.Error(err))
		s.discard(ctx, RestoreFailed)
		return nil
	}

	students, err := s.students.ListStudents(ctx)
	if err != nil {
		s.logger.Info("session restore could not reach directory", zap.Int("student_id", saved.ID), zap.Error(err))
		s.discard(ctx, RestoreFailed)
		return nil
	}

	current := models.FindStudent(students, saved.ID)
	if current == nil {
		s.logger.Info("persisted student no longer exists", zap.Int("student_id", saved.ID))
		s.discard(ctx, RestoreNotFound)
		return nil
	}

	s.metrics.RecordSessionRestore(RestoreValid)
	return current
}

// Save persists the identity, replacing any previous one.
func (s *SessionService) Save(ctx context.Context, student models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = true
	if err := s.repo.Put(ctx, s.key, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return nil
}

// Clear removes the persisted identity.
func (s *SessionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = true
	return s.deleteLocked(ctx)
}

func (s *SessionService) deleteLocked(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

func (s *SessionService) discard(ctx context.Context, result string) {
	s.metrics.RecordSessionRestore(result)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.written {
		s.logger.Info("session rewritten during restore, keeping it", zap.String("result", result))
		return
	}
	if err := s.deleteLocked(ctx); err != nil {
		s.logger.Warn("failed to drop persisted session", zap.Error(err))
	}
}
