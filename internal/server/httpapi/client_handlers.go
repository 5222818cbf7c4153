package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumeshot/lumeshot/internal/common"
)

type clientSigninRequest struct {
	Pin string `json:"pin"`
}

func (s *Server) handleClientSignin(c *gin.Context) {
	var req clientSigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	token, user, err := s.svc.Clients.Signin(c.Request.Context(), req.Pin)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"projectId": user.ProjectID,
	})
}

func (s *Server) handleGallery(c *gin.Context) {
	view, err := s.svc.Gallery.View(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type interactionsRequest struct {
	CategoryID string   `json:"categoryId"`
	ImageIDs   []string `json:"imageIds"`
}

func (s *Server) handleInteractions(c *gin.Context) {
	var req interactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	clientID := c.GetString(ctxUserID)
	ctx := c.Request.Context()

	if err := s.svc.Clients.RecordInteractions(ctx, clientID, req.CategoryID, req.ImageIDs); err != nil {
		writeError(c, err)
		return
	}

	// Return the refreshed unlock states so the client can update its view
	// without a second round trip.
	view, err := s.svc.Gallery.View(ctx, clientID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type grantAccessRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) handleGrantAccess(c *gin.Context) {
	var req grantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	clientID := c.GetString(ctxUserID)
	grant, err := s.svc.Clients.GrantAccess(c.Request.Context(), clientID, req.Email, req.Role, clientID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        grant.ID,
		"email":     grant.Email,
		"role":      grant.Role,
		"createdAt": grant.CreatedAt,
	})
}
