package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/relieforg/reliefhub/internal/middleware"
	"github.com/relieforg/reliefhub/internal/pkg/errcode"
	"github.com/relieforg/reliefhub/internal/pkg/response"
	"github.com/relieforg/reliefhub/internal/service"
)

type ProfileHandler struct {
	auth *service.AuthService
}

func NewProfileHandler(auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

type profileUpdateRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	user, token, err := h.auth.UpdateProfile(c.Request.Context(), getUserID(c), service.ProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	if token != "" {
		c.Header(middleware.RefreshedTokenHeader, token)
	}
	response.Success(c, gin.H{"user": user})
}
