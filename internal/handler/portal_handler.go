package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/response"
)

type shellService interface {
	State() models.PortalState
	OpenModal(modal models.Modal) (models.PortalState, error)
	CloseModal() models.PortalState
	Login(ctx context.Context, creds models.Credentials) (models.PortalState, error)
	Logout(ctx context.Context) (models.PortalState, error)
}

// PortalHandler serves the shell: state, overlays and the session.
type PortalHandler struct {
	service shellService
}

// NewPortalHandler builds a new handler.
func NewPortalHandler(service shellService) *PortalHandler {
	return &PortalHandler{service: service}
}

// State godoc
// @Summary Portal shell state
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/state [get]
func (h *PortalHandler) State(c *gin.Context) {
	response.OK(c, h.service.State())
}

// OpenModal godoc
// @Summary Open an overlay
// @Tags Portal
// @Produce json
// @Param modal path string true "login, admin or my-courses"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /portal/modals/{modal} [post]
func (h *PortalHandler) OpenModal(c *gin.Context) {
	modal, ok := models.ParseModal(c.Param("modal"))
	if !ok || modal == models.ModalNone {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown modal"))
		return
	}
	state, err := h.service.OpenModal(modal)
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}

// CloseModal godoc
// @Summary Close the active overlay
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/modals [delete]
func (h *PortalHandler) CloseModal(c *gin.Context) {
	response.OK(c, h.service.CloseModal())
}

// Login godoc
// @Summary Sign in or register
// @Tags Portal
// @Accept json
// @Produce json
// @Param payload body models.Credentials true "Name and email"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/session [post]
func (h *PortalHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	state, err := h.service.Login(c.Request.Context(), creds)
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}

// Logout godoc
// @Summary Sign out
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/session [delete]
func (h *PortalHandler) Logout(c *gin.Context) {
	state, err := h.service.Logout(c.Request.Context())
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}
