package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/config"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

func TestDetailHandlerOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &portalServiceMock{detail: models.DetailState{CourseID: 5, IsEnrolled: true, CanUnenroll: true}}
	handler := NewDetailHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/portal/courses/5/detail", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.Open(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.lastCourseID)
	assert.Contains(t, w.Body.String(), `"can_unenroll":true`)
}

func TestDetailHandlerOpenInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &portalServiceMock{}
	handler := NewDetailHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/portal/courses/abc/detail", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Open(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.lastCourseID)
}

func TestDetailHandlerEnrollFailureCarriesState(t *testing.T) {
	svc := &portalServiceMock{
		detail:    models.DetailState{CourseID: 7, CanEnroll: true},
		detailErr: appErrors.Clone(appErrors.ErrTransport, "enroll failed, possibly already enrolled"),
	}
	router := buildPortalRouter(svc, config.FeatureConfig{})

	w := performRequest(router, http.MethodPost, "/api/v1/portal/detail/enroll", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, svc.enrollCalled)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "enroll failed, possibly already enrolled", env.Error.Message)
	assert.Contains(t, string(env.Data), `"can_enroll":true`)
}

func TestDetailHandlerNoActiveView(t *testing.T) {
	svc := &portalServiceMock{detailErr: appErrors.ErrNoActiveView}
	router := buildPortalRouter(svc, config.FeatureConfig{})

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/portal/detail"},
		{http.MethodPost, "/api/v1/portal/detail/unenroll"},
		{http.MethodDelete, "/api/v1/portal/detail"},
	} {
		w := performRequest(router, route.method, route.path, "")
		assert.Equal(t, http.StatusConflict, w.Code, route.path)
	}
}
