package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/relieforg/reliefhub/internal/pkg/errcode"
	"github.com/relieforg/reliefhub/internal/pkg/response"
	"github.com/relieforg/reliefhub/internal/service"
)

// SessionTokenHeader carries the opaque pending-verification session
// token between the register/login responses and the verify/resend
// requests.
const SessionTokenHeader = "X-Session-Token"

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	outcome, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	}, c.GetHeader(SessionTokenHeader))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header(SessionTokenHeader, outcome.SessionToken)
	response.Success(c, outcome)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	outcome, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, c.GetHeader(SessionTokenHeader))
	if err != nil {
		handleError(c, err)
		return
	}
	if outcome.SessionToken != "" {
		c.Header(SessionTokenHeader, outcome.SessionToken)
	}
	response.Success(c, outcome)
}

type verifyRequest struct {
	Code string `json:"code"`
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	outcome, err := h.auth.Verify(c.Request.Context(), c.GetHeader(SessionTokenHeader), req.Code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, outcome)
}

func (h *AuthHandler) Resend(c *gin.Context) {
	outcome, err := h.auth.Resend(c.Request.Context(), c.GetHeader(SessionTokenHeader))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, outcome)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	outcome := h.auth.Logout(c.Request.Context(), c.GetHeader(SessionTokenHeader))
	response.Success(c, outcome)
}
