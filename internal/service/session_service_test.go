package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
)

const sessionKey = "courseSelectionUser"

func TestSessionRestoreValid(t *testing.T) {
	repo := newMemorySessionRepo()
	repo.records[sessionKey] = models.Student{ID: 1, Name: "stale name", Email: "a@x.com"}
	metrics := NewMetricsService()
	svc := NewSessionService(repo, newFakeDirectory(), sessionKey, metrics, nil)

	user := svc.Restore(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, "Ann", user.Name)
	assert.True(t, repo.has(sessionKey))
	assert.Equal(t, float64(1), counterValue(t, metrics, "session_restores_total", map[string]string{"result": RestoreValid}))
}

func TestSessionRestoreUnknownStudentClears(t *testing.T) {
	repo := newMemorySessionRepo()
	repo.records[sessionKey] = models.Student{ID: 99}
	svc := NewSessionService(repo, newFakeDirectory(), sessionKey, nil, nil)

	assert.Nil(t, svc.Restore(context.Background()))
	assert.False(t, repo.has(sessionKey))
}

func TestSessionRestoreDirectoryFailureClears(t *testing.T) {
	repo := newMemorySessionRepo()
	repo.records[sessionKey] = models.Student{ID: 1}
	dir := newFakeDirectory()
	dir.fail("list_students", errDirectoryDown)
	svc := NewSessionService(repo, dir, sessionKey, nil, nil)

	assert.Nil(t, svc.Restore(context.Background()))
	assert.False(t, repo.has(sessionKey))
}

func TestSessionRestoreNothingPersisted(t *testing.T) {
	repo := newMemorySessionRepo()
	dir := newFakeDirectory()
	svc := NewSessionService(repo, dir, sessionKey, nil, nil)

	assert.Nil(t, svc.Restore(context.Background()))
	assert.Zero(t, dir.count("list_students"))
	assert.Zero(t, repo.deleted)
}

func TestSessionRestoreUnreadableRecord(t *testing.T) {
	repo := newMemorySessionRepo()
	repo.getErr = errors.New("corrupt record")
	svc := NewSessionService(repo, newFakeDirectory(), sessionKey, nil, nil)

	assert.Nil(t, svc.Restore(context.Background()))
	assert.Equal(t, 1, repo.deleted)
}

func TestSessionSaveAndClear(t *testing.T) {
	repo := newMemorySessionRepo()
	svc := NewSessionService(repo, newFakeDirectory(), "", nil, nil)

	require.NoError(t, svc.Save(context.Background(), models.Student{ID: 2, Name: "Carl"}))
	assert.True(t, repo.has(sessionKey))

	require.NoError(t, svc.Clear(context.Background()))
	assert.False(t, repo.has(sessionKey))
}

func TestSessionRestoreKeepsRecordSavedMeanwhile(t *testing.T) {
	repo := newMemorySessionRepo()
	repo.records[sessionKey] = models.Student{ID: 99}
	gate := newGatedLister(newFakeDirectory())
	svc := NewSessionService(repo, gate, sessionKey, nil, nil)

	done := make(chan *models.Student)
	go func() { done <- svc.Restore(context.Background()) }()
	<-gate.entered

	require.NoError(t, svc.Save(context.Background(), models.Student{ID: 1, Name: "Ann", Email: "a@x.com"}))
	close(gate.release)

	assert.Nil(t, <-done)
	assert.True(t, repo.has(sessionKey))
	assert.Zero(t, repo.deleted)
}
