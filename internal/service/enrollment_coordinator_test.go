package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

var ann = &models.Student{ID: 1, Name: "Ann", Email: "a@x.com"}

func TestDetailLoadEnrolledCourse(t *testing.T) {
	dir := newFakeDirectory()
	coord := NewEnrollmentCoordinator(dir, nil, nil, nil)

	view := coord.Open(ann, 5)
	initial := view.State()
	assert.True(t, initial.Loading)
	assert.True(t, initial.CheckingEnrollment)
	assert.False(t, initial.CanEnroll)

	state, err := view.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, state.Course)
	assert.Equal(t, "COMP3322", state.Course.Code)
	assert.True(t, state.IsEnrolled)
	assert.False(t, state.CanEnroll)
	assert.True(t, state.CanUnenroll)
}

func TestDetailLoadSignedOutSkipsCheck(t *testing.T) {
	dir := newFakeDirectory()
	view := NewEnrollmentCoordinator(dir, nil, nil, nil).Open(nil, 5)

	assert.False(t, view.State().CheckingEnrollment)
	state, err := view.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, state.Course)
	assert.False(t, state.CanEnroll)
	assert.False(t, state.CanUnenroll)
	assert.Zero(t, dir.count("student_courses"))
}

func TestDetailLoadCheckFailureReadsNotEnrolled(t *testing.T) {
	dir := newFakeDirectory()
	dir.fail("student_courses", errDirectoryDown)
	view := NewEnrollmentCoordinator(dir, nil, nil, nil).Open(ann, 5)

	state, err := view.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsEnrolled)
	assert.False(t, state.CheckingEnrollment)
	assert.True(t, state.CanEnroll)
}

func TestDetailLoadCourseFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.fail("get_course", errDirectoryDown)
	view := NewEnrollmentCoordinator(dir, nil, nil, nil).Open(ann, 5)

	state, err := view.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTransport))
	assert.Nil(t, state.Course)
	assert.False(t, state.Loading)
	assert.False(t, state.CanEnroll)
	assert.False(t, state.CanUnenroll)
}

func TestUnenrollAppliesLocallyAndNotifiesOnce(t *testing.T) {
	dir := newFakeDirectory()
	notifier := &countingNotifier{}
	metrics := NewMetricsService()
	view := NewEnrollmentCoordinator(dir, notifier, metrics, nil).Open(ann, 5)
	_, err := view.Load(context.Background())
	require.NoError(t, err)

	state, err := view.Unenroll(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsEnrolled)
	assert.True(t, state.CanEnroll)
	assert.Equal(t, 1, dir.count("unenroll"))
	assert.Equal(t, 1, notifier.calls())
	// no confirming re-fetch
	assert.Equal(t, 1, dir.count("student_courses"))
	assert.Equal(t, float64(1), counterValue(t, metrics, "enrollment_mutations_total", map[string]string{"action": ActionUnenroll, "outcome": OutcomeSuccess}))
}

func TestEnrollWhenAlreadyEnrolledIsSkipped(t *testing.T) {
	dir := newFakeDirectory()
	notifier := &countingNotifier{}
	view := NewEnrollmentCoordinator(dir, notifier, nil, nil).Open(ann, 5)
	_, err := view.Load(context.Background())
	require.NoError(t, err)

	state, err := view.Enroll(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsEnrolled)
	assert.Zero(t, dir.count("enroll"))
	assert.Zero(t, notifier.calls())
}

func TestEnrollSignedOutIsSkipped(t *testing.T) {
	dir := newFakeDirectory()
	view := NewEnrollmentCoordinator(dir, nil, nil, nil).Open(nil, 7)
	_, err := view.Load(context.Background())
	require.NoError(t, err)

	_, err = view.Enroll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dir.count("enroll"))
}

func TestEnrollFailureLeavesStateUnchanged(t *testing.T) {
	dir := newFakeDirectory()
	dir.fail("enroll", errDirectoryDown)
	notifier := &countingNotifier{}
	view := NewEnrollmentCoordinator(dir, notifier, nil, nil).Open(ann, 7)
	_, err := view.Load(context.Background())
	require.NoError(t, err)

	state, err := view.Enroll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enroll failed, possibly already enrolled")
	assert.False(t, state.IsEnrolled)
	assert.False(t, state.Mutating)
	assert.True(t, state.CanEnroll)
	assert.Zero(t, notifier.calls())
}

func TestConcurrentEnrollRejectedWhileMutating(t *testing.T) {
	dir := newFakeDirectory()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	dir.beforeEnroll = func() {
		once.Do(func() { close(entered) })
		<-release
	}
	view := NewEnrollmentCoordinator(dir, nil, nil, nil).Open(ann, 7)
	_, err := view.Load(context.Background())
	require.NoError(t, err)

	done := make(chan models.DetailState)
	go func() {
		state, _ := view.Enroll(context.Background())
		done <- state
	}()
	<-entered

	second, err := view.Enroll(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Mutating)
	assert.False(t, second.CanEnroll)
	assert.False(t, second.CanUnenroll)

	close(release)
	first := <-done
	assert.True(t, first.IsEnrolled)
	assert.Equal(t, 1, dir.count("enroll"))
}

func TestCloseDiscardsLateResults(t *testing.T) {
	dir := newFakeDirectory()
	release := make(chan struct{})
	dir.beforeGetCourse = func() { <-release }
	dir.beforeStudentCourses = func() { <-release }
	view := NewEnrollmentCoordinator(dir, nil, nil, nil).Open(ann, 5)

	done := make(chan models.DetailState)
	go func() {
		state, _ := view.Load(context.Background())
		done <- state
	}()

	view.Close()
	close(release)
	state := <-done

	assert.True(t, state.Closed)
	assert.Nil(t, state.Course)
	assert.True(t, state.Loading)
	assert.False(t, state.IsEnrolled)
	assert.False(t, state.CanEnroll)
	assert.False(t, state.CanUnenroll)
}

func TestOpenAssignsDistinctViewIDs(t *testing.T) {
	coord := NewEnrollmentCoordinator(newFakeDirectory(), nil, nil, nil)
	a := coord.Open(ann, 5)
	b := coord.Open(ann, 5)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 5, a.CourseID())
}
