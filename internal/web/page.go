package web

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonkit/internal/export"
	"github.com/abhisek/lessonkit/internal/generation"
)

type pageSection struct {
	Title   string
	Text    string
	Failed  bool
	Skipped bool
}

type pageData struct {
	Form      formValues
	Flash     string
	Provider  string
	Outcome   *generation.Outcome
	Sections  []pageSection
	Documents []export.Member
}

func (s *Server) renderPage(c *gin.Context, status int, form formValues, out *generation.Outcome, flash string) {
	data := pageData{
		Form:     form,
		Flash:    flash,
		Provider: s.opts.Provider,
		Outcome:  out,
	}
	if out != nil && out.HasResults {
		for _, stage := range generation.Stages {
			res, ok := out.Result(stage)
			sec := pageSection{Title: stage.Title()}
			switch {
			case !ok:
				sec.Skipped = true
				sec.Text = export.NotGenerated
			default:
				sec.Failed = !res.OK()
				sec.Text = res.Text()
			}
			data.Sections = append(data.Sections, sec)
		}
		data.Documents = export.Members
	}
	c.HTML(status, "index.html", data)
}
