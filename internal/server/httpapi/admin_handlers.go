package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/server/projects"
	"github.com/lumeshot/lumeshot/internal/server/upload"
)

type adminSigninRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminSignin(c *gin.Context) {
	var req adminSigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	token, err := s.svc.Admins.Login(c.Request.Context(), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleAdminRegister provisions the first (and only) admin account. The
// service refuses the call once an admin exists.
func (s *Server) handleAdminRegister(c *gin.Context) {
	var req adminSigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	u, err := s.svc.Admins.Register(c.Request.Context(), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": u.ID})
}

type createProjectRequest struct {
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	Package       string    `json:"package"`
	DueDate       time.Time `json:"dueDate"`
	EstimatedDays int       `json:"estimatedDays"`
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	p, err := s.svc.Projects.Create(c.Request.Context(), projects.CreateParams{
		Name:          req.Name,
		Contact:       req.Contact,
		Package:       req.Package,
		DueDate:       req.DueDate,
		EstimatedDays: req.EstimatedDays,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      p.ID,
		"name":    p.Name,
		"contact": p.Contact,
		"package": p.Package,
		"countdown": gin.H{
			"months":  p.CountdownMonths,
			"days":    p.CountdownDays,
			"hours":   p.CountdownHours,
			"minutes": p.CountdownMinutes,
		},
	})
}

type createClientRequest struct {
	ProjectID string `json:"projectId"`
	// Pin is optional; when omitted a pin is generated and returned once.
	Pin string `json:"pin"`
}

func (s *Server) handleCreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	user, pin, err := s.svc.Clients.Register(c.Request.Context(), req.ProjectID, req.Pin)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        user.ID,
		"projectId": user.ProjectID,
		"pin":       pin,
	})
}

type fileMetaRequest struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	RelativePath string `json:"relativePath"`
}

type generateUploadsRequest struct {
	ProjectName             string `json:"projectName"`
	Contact                 string `json:"contact"`
	Package                 string `json:"package"`
	PreserveFolderStructure bool   `json:"preserveFolderStructure"`
	// ExpiresIn overrides the credential lifetime, seconds. Zero means the
	// configured default.
	ExpiresIn int               `json:"expiresIn"`
	Files     []fileMetaRequest `json:"files"`
}

func (s *Server) handleGenerateUploads(c *gin.Context) {
	var req generateUploadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	files := make([]upload.FileMeta, len(req.Files))
	for i, f := range req.Files {
		files[i] = upload.FileMeta{
			Name:         f.Name,
			Size:         f.Size,
			Type:         f.Type,
			RelativePath: f.RelativePath,
		}
	}

	manifest, err := s.svc.Upload.Generate(c.Request.Context(), upload.GenerateParams{
		Project: upload.ProjectMeta{
			Name:    req.ProjectName,
			Contact: req.Contact,
			Package: req.Package,
		},
		Files:           files,
		PreserveFolders: req.PreserveFolderStructure,
		ExpiresIn:       time.Duration(req.ExpiresIn) * time.Second,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, manifest)
}

type completeUploadsRequest struct {
	SessionID string                  `json:"sessionId"`
	Files     []*upload.CompletedFile `json:"files"`
}

func (s *Server) handleCompleteUploads(c *gin.Context) {
	var req completeUploadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()))
		return
	}

	result, err := s.svc.Reconciler.Complete(c.Request.Context(), req.SessionID, req.Files)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleUploadStatus(c *gin.Context) {
	sess, err := s.svc.Upload.SessionStatus(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":  sess.ID,
		"projectId":  sess.ProjectID,
		"totalFiles": sess.TotalFiles,
		"createdAt":  sess.CreatedAt,
		"expiresAt":  sess.ExpiresAt,
		"expired":    sess.Expired(time.Now().UTC()),
	})
}
