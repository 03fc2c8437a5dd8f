// Package handlers contains HTTP request handlers for the ajenda service.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/middleware"
	"github.com/zohair-aabidi/ajenda/internal/models"
	"github.com/zohair-aabidi/ajenda/internal/repository"
	"github.com/zohair-aabidi/ajenda/internal/service"
	"github.com/zohair-aabidi/ajenda/internal/validation"
)

// SigninObserver is notified of every signin outcome.
type SigninObserver interface {
	ObserveSignin(outcome string)
}

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService   service.AuthService
	actionLogRepo repository.ActionLogRepository
	observer      SigninObserver
	log           logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler instance. observer may be nil.
func NewAuthHandler(
	authService service.AuthService,
	actionLogRepo repository.ActionLogRepository,
	observer SigninObserver,
	log logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		actionLogRepo: actionLogRepo,
		observer:      observer,
		log:           log,
	}
}

// Signin godoc
// @Summary User signin
// @Description Verify credentials and return a bearer token with the user's identity
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SigninRequest true "Signin credentials"
// @Success 200 {object} service.SigninResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 429 {object} MessageResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req service.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.observe("bad_request")
		respondValidation(c, err)
		return
	}

	response, err := h.authService.Signin(c.Request.Context(), req)
	switch {
	case err == nil:
		h.observe("success")
		h.audit(c, models.ActionSigninSuccess, &response.ID, response.Username, "")
		c.JSON(http.StatusOK, response)
	case errors.Is(err, service.ErrInvalidCredentials):
		h.observe("invalid_credentials")
		h.audit(c, models.ActionSigninFailure, nil, req.Username, failureReason(err))
		RespondError(c, http.StatusUnauthorized, "Bad credentials")
	case errors.Is(err, service.ErrTooManyAttempts):
		h.observe("throttled")
		h.audit(c, models.ActionSigninFailure, nil, req.Username, "throttled")
		RespondError(c, http.StatusTooManyRequests, "Too many failed signin attempts, try again later")
	default:
		h.observe("error")
		LogAndRespondError(c, h.log, http.StatusInternalServerError, err, "signin failed")
	}
}

// Signup godoc
// @Summary User signup
// @Description Register a new account. Roles default to ROLE_USER.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupRequest true "New account"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	err := h.authService.Signup(c.Request.Context(), req)
	switch {
	case err == nil:
		h.audit(c, models.ActionSignup, nil, req.Username, "")
		c.JSON(http.StatusOK, MessageResponse{Message: "User registered successfully!"})
	case errors.Is(err, service.ErrUsernameTaken):
		RespondError(c, http.StatusBadRequest, "Error: Username is already taken!")
	case errors.Is(err, service.ErrEmailTaken):
		RespondError(c, http.StatusBadRequest, "Error: Email is already in use!")
	default:
		LogAndRespondError(c, h.log, http.StatusInternalServerError, err, "signup failed")
	}
}

func (h *AuthHandler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveSignin(outcome)
	}
}

// audit writes an action record. A failed write is logged and does not
// change the response.
func (h *AuthHandler) audit(c *gin.Context, action string, userID *int64, username, detail string) {
	if h.actionLogRepo == nil {
		return
	}
	entry := &models.ActionLog{
		Action:    action,
		UserID:    userID,
		Username:  username,
		Detail:    detail,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.GetRequestID(c),
	}
	if err := h.actionLogRepo.LogAction(c.Request.Context(), entry); err != nil {
		h.log.WithError(err).WithField("action", action).Warn("failed to write audit record")
	}
}

// failureReason names why credentials were rejected. It is recorded for
// diagnostics only and never sent to the client.
func failureReason(err error) string {
	switch {
	case errors.Is(err, service.ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, service.ErrBadPassword):
		return "bad_password"
	default:
		return "invalid_credentials"
	}
}

// respondValidation answers 400 with one message per invalid field.
func respondValidation(c *gin.Context, err error) {
	msgs := validation.Messages(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, MessageResponse{
		Message: strings.Join(msgs, " "),
		Errors:  msgs,
	})
}
