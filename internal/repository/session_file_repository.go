package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/storage"
)

// FileSessionRepository keeps each session key as one JSON file, the portal's
// counterpart of browser local storage.
type FileSessionRepository struct {
	store *storage.LocalStorage
}

// NewFileSessionRepository ensures the base directory exists.
func NewFileSessionRepository(baseDir string) (*FileSessionRepository, error) {
	if baseDir == "" {
		baseDir = "./.portal"
	}
	store, err := storage.NewLocalStorage(baseDir)
	if err != nil {
		return nil, err
	}
	return &FileSessionRepository{store: store}, nil
}

// Get loads the identity stored under key.
func (r *FileSessionRepository) Get(_ context.Context, key string) (*models.Student, error) {
	raw, err := r.store.Read(fileName(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, appErrors.ErrSessionMiss
		}
		return nil, fmt.Errorf("read session %s: %w", key, err)
	}
	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return &student, nil
}

// Put overwrites the identity stored under key.
func (r *FileSessionRepository) Put(_ context.Context, key string, student models.Student) error {
	payload, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if err := r.store.Save(fileName(key), payload); err != nil {
		return fmt.Errorf("write session %s: %w", key, err)
	}
	return nil
}

// Delete removes the identity stored under key if present.
func (r *FileSessionRepository) Delete(_ context.Context, key string) error {
	if err := r.store.Delete(fileName(key)); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

func fileName(key string) string {
	return key + ".json"
}
