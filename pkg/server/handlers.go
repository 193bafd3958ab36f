package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/itsrayland/pwx/pkg/media"
	"github.com/itsrayland/pwx/pkg/project"
	"github.com/itsrayland/pwx/pkg/spec"
	"github.com/itsrayland/pwx/pkg/styleguide"
	"github.com/itsrayland/pwx/pkg/template"
	"github.com/itsrayland/pwx/pkg/workstation"
)

func (s *Server) health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"service": "pwx", "status": "healthy"})
}

func (s *Server) listProjects(c *gin.Context) {
	filter := project.ListFilter{
		Status: project.Status(c.Query("status")),
		Type:   c.Query("type"),
	}
	projects, err := s.ws.Projects.List(filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"projects": projects})
}

type createProjectReq struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Client      project.ClientInfo `json:"clientInfo"`
}

func (s *Server) createProject(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, errors.New("invalid body: name is required"))
		return
	}
	p, err := s.ws.Projects.Create(strings.TrimSpace(req.Name), project.CreateOptions{
		Type:        req.Type,
		Description: req.Description,
		Client:      req.Client,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"project": p})
}

func (s *Server) getProject(c *gin.Context) {
	p, err := s.ws.Projects.Load(c.Param("id"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	ok(c, http.StatusOK, gin.H{"project": p})
}

func (s *Server) deleteProject(c *gin.Context) {
	if err := s.ws.Projects.Delete(c.Param("id")); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (s *Server) archiveProject(c *gin.Context) {
	if err := s.ws.Projects.Archive(c.Param("id")); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (s *Server) projectHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.ws.Projects.Load(id); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	records := s.ws.History(id)
	if records == nil {
		records = []*workstation.Record{}
	}
	ok(c, http.StatusOK, gin.H{"history": records})
}

func (s *Server) projectMetrics(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.ws.Projects.Load(id); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	ok(c, http.StatusOK, gin.H{"metrics": s.ws.ProjectMetrics(id)})
}

func (s *Server) projectSpec(c *gin.Context) {
	p, err := s.ws.Projects.Load(c.Param("id"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	format := c.DefaultQuery("format", spec.FormatJSON)
	f, err := spec.Generate(spec.Compile(p), format)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, spec.ErrPDFNotImplemented) {
			code = http.StatusNotImplemented
		}
		fail(c, code, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"file": f})
}

func (s *Server) projectValidation(c *gin.Context) {
	p, err := s.ws.Projects.Load(c.Param("id"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	report := spec.Validate(spec.Compile(p))
	ok(c, http.StatusOK, gin.H{"report": report, "valid": report.Valid()})
}

func (s *Server) listTemplates(c *gin.Context) {
	summaries := s.ws.Templates.List(template.Filter{
		Model:    c.Query("model"),
		Category: c.Query("category"),
	})
	if summaries == nil {
		summaries = []template.Summary{}
	}
	ok(c, http.StatusOK, gin.H{"templates": summaries})
}

type renderReq struct {
	Parameters map[string]string `json:"parameters"`
}

func (s *Server) renderTemplate(c *gin.Context) {
	var req renderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	res, err := s.ws.Templates.Render(c.Param("id"), req.Parameters)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	ok(c, http.StatusOK, gin.H{"result": res})
}

type workflowReq struct {
	ProjectID    string             `json:"projectId"`
	Type         string             `json:"type"`
	MediaAssets  []string           `json:"mediaAssets"`
	PrimaryColor string             `json:"primaryColor"`
	Template     *template.Template `json:"template"`
}

func (s *Server) executeWorkflow(c *gin.Context) {
	var req workflowReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" || req.Type == "" {
		fail(c, http.StatusBadRequest, errors.New("invalid body: projectId and type are required"))
		return
	}
	if _, err := s.ws.UseProject(req.ProjectID); err != nil {
		fail(c, statusFor(err), err)
		return
	}

	opts := workstation.Options{
		MediaAssets: req.MediaAssets,
		Template:    req.Template,
	}
	if req.PrimaryColor != "" {
		opts.DesignSpec = &styleguide.DesignSpec{
			ColorPalette: styleguide.ColorPalette{Primary: req.PrimaryColor},
		}
	}

	rec, err := s.ws.ExecuteWorkflow(c.Request.Context(), req.Type, opts)
	if err != nil {
		if errors.Is(err, workstation.ErrUnknownWorkflowType) {
			fail(c, http.StatusBadRequest, err)
			return
		}
		// The failed record still matters to the caller.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   err.Error(),
			"record":  rec,
		})
		return
	}
	ok(c, http.StatusOK, gin.H{"record": rec})
}

func (s *Server) exportProject(c *gin.Context) {
	res, err := s.ws.Projects.Export(c.Param("id"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	c.Header("X-Export-Size", strconv.Itoa(res.Size))
	c.Data(http.StatusOK, "application/json", res.Data)
}

type analyzeReq struct {
	Files []string `json:"files"`
	Type  string   `json:"type"`
}

// analyzeMedia runs media analysis on the supplied files, falling back
// to the project's registered assets when the body lists none.
func (s *Server) analyzeMedia(c *gin.Context) {
	p, err := s.ws.Projects.Load(c.Param("id"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errors.New("invalid body"))
		return
	}
	files := req.Files
	if len(files) == 0 {
		for _, a := range p.Assets {
			files = append(files, a.Path)
		}
	}
	report, err := media.Analyze(files, req.Type)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"report": report})
}

func (s *Server) allHistory(c *gin.Context) {
	records := s.ws.History(c.Query("projectId"))
	if records == nil {
		records = []*workstation.Record{}
	}
	ok(c, http.StatusOK, gin.H{"history": records})
}

func (s *Server) allMetrics(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"metrics": s.ws.ProjectMetrics(c.Query("projectId"))})
}

func (s *Server) workflowTypes(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"types": workstation.WorkflowTypes})
}

// statusFor maps store errors onto HTTP statuses.
func statusFor(err error) int {
	var terr *project.TransitionError
	switch {
	case errors.Is(err, project.ErrNotFound), errors.Is(err, template.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &terr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
