package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/service"
)

type authHandler struct {
	svc AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type oauthRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	OAuthID  string `json:"oauth_id"`
	Picture  string `json:"picture"`
}

func (h *authHandler) register(c *gin.Context) {
	var body registerRequest
	if !bindJSON(c, &body) {
		return
	}

	session, err := h.svc.Register(c.Request.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (h *authHandler) login(c *gin.Context) {
	var body loginRequest
	if !bindJSON(c, &body) {
		return
	}

	session, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *authHandler) oauth(c *gin.Context) {
	var body oauthRequest
	if !bindJSON(c, &body) {
		return
	}

	session, err := h.svc.OAuthLogin(c.Request.Context(), service.OAuthIdentity{
		Email:    body.Email,
		Name:     body.Name,
		Provider: body.Provider,
		OAuthID:  body.OAuthID,
		Picture:  body.Picture,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

func toSessionResponse(s service.Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: toUserResponse(s.User)}
}
