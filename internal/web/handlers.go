package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonkit/internal/document"
	"github.com/abhisek/lessonkit/internal/export"
	"github.com/abhisek/lessonkit/internal/generation"
)

const (
	docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	zipMIME  = "application/zip"
)

var errBusy = errors.New("a generation is already running")

type formValues struct {
	Title               string `form:"title" json:"title"`
	LessonInfo          string `form:"lesson_info" json:"lesson_info"`
	AdditionalResources string `form:"additional_resources" json:"additional_resources"`
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) index(c *gin.Context) {
	form, out := s.snapshot()
	s.renderPage(c, http.StatusOK, form, out, "")
}

func (s *Server) generateForm(c *gin.Context) {
	var form formValues
	if err := c.ShouldBind(&form); err != nil {
		s.renderPage(c, http.StatusBadRequest, form, nil, "Could not read the form: "+err.Error())
		return
	}

	out, err := s.generate(c, form)
	switch {
	case errors.Is(err, generation.ErrMissingLessonInfo):
		s.renderPage(c, http.StatusBadRequest, form, nil, "Please provide lesson information.")
		return
	case errors.Is(err, errBusy):
		s.renderPage(c, http.StatusConflict, form, nil, "A generation is already running. Try again when it finishes.")
		return
	case err != nil:
		s.renderPage(c, http.StatusInternalServerError, form, nil, err.Error())
		return
	}
	s.renderPage(c, http.StatusOK, form, out, "")
}

func (s *Server) generateAPI(c *gin.Context) {
	var form formValues
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	out, err := s.generate(c, form)
	switch {
	case errors.Is(err, generation.ErrMissingLessonInfo):
		respondError(c, http.StatusBadRequest, "missing_lesson_info", err)
		return
	case errors.Is(err, errBusy):
		respondError(c, http.StatusConflict, "busy", err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "generation_failed", err)
		return
	}
	respondOK(c, newOutcomeResponse(out))
}

// generate runs the whole pipeline and keeps the outcome as the latest.
func (s *Server) generate(c *gin.Context, form formValues) (*generation.Outcome, error) {
	if !s.running.TryLock() {
		return nil, errBusy
	}
	defer s.running.Unlock()

	in := generation.Input{
		Title:               form.Title,
		LessonInfo:          form.LessonInfo,
		AdditionalResources: form.AdditionalResources,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx := c.Request.Context()
	if s.opts.Reference != nil {
		in.Reference = s.opts.Reference.LoadOrEmpty(ctx, s.opts.ReferenceDir)
	}

	out, err := s.opts.Pipeline.Run(ctx, in, nil)
	if err != nil {
		return nil, err
	}
	s.store(form, out)
	return out, nil
}

func (s *Server) reset(c *gin.Context) {
	s.clear()
	if c.GetHeader("Accept") == "application/json" {
		respondOK(c, gin.H{"status": "cleared"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) download(c *gin.Context) {
	out := s.Latest()
	if out == nil || !out.HasResults {
		respondError(c, http.StatusNotFound, "no_results", errors.New("nothing has been generated yet"))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteArchive(&buf, out); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	attachment(c, export.ArchiveName(out.Title))
	c.Data(http.StatusOK, zipMIME, buf.Bytes())
}

func (s *Server) document(c *gin.Context) {
	member, ok := export.Lookup(c.Param("name"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown_document", fmt.Errorf("no document named %q", c.Param("name")))
		return
	}
	out := s.Latest()
	if out == nil || !out.HasResults {
		respondError(c, http.StatusNotFound, "no_results", errors.New("nothing has been generated yet"))
		return
	}

	data, err := document.DOCX(member.Render(out))
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	attachment(c, member.File)
	c.Data(http.StatusOK, docxMIME, data)
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

type stageResponse struct {
	Stage   generation.Stage   `json:"stage"`
	Title   string             `json:"title"`
	OK      bool               `json:"ok"`
	Content string             `json:"content,omitempty"`
	Error   string             `json:"error,omitempty"`
	Report  *generation.Report `json:"report,omitempty"`
}

type outcomeResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Halted    bool               `json:"halted"`
	Complete  bool               `json:"complete"`
	Results   []stageResponse    `json:"results"`
	Skipped   []generation.Stage `json:"skipped,omitempty"`
	Download  string             `json:"download"`
	Documents []string           `json:"documents"`
}

func newOutcomeResponse(out *generation.Outcome) outcomeResponse {
	resp := outcomeResponse{
		ID:       out.ID.String(),
		Title:    out.Title,
		Halted:   out.Halted,
		Complete: out.Complete(),
		Download: "/download",
	}
	for _, stage := range generation.Stages {
		res, ok := out.Result(stage)
		if !ok {
			resp.Skipped = append(resp.Skipped, stage)
			continue
		}
		sr := stageResponse{Stage: stage, Title: stage.Title(), OK: res.OK(), Report: res.Report}
		if res.OK() {
			sr.Content = res.Content
		} else {
			sr.Error = res.Text()
		}
		resp.Results = append(resp.Results, sr)
	}
	for _, m := range export.Members {
		resp.Documents = append(resp.Documents, "/documents/"+m.File)
	}
	return resp
}
