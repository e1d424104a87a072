package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/form"
	"github.com/hlop3z/linkdb/internal/model"
)

func (s *Server) index(c *gin.Context) {
	env := s.envFrom(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":  "Tables",
		"Tables": env.Catalog.DataTables(),
		"Links":  env.Catalog.LinkTables(),
	})
}

func (s *Server) list(c *gin.Context) {
	env := s.envFrom(c)
	l, err := env.GetRows(c.Request.Context(), c.Param("table"), nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	t, _ := env.Catalog.Table(l.Table)
	c.HTML(http.StatusOK, "list.html", gin.H{
		"Title":   t.ExternalName,
		"Table":   t,
		"Listing": l,
		"Key":     keyIndex(t, l),
	})
}

func (s *Server) view(c *gin.Context) {
	env := s.envFrom(c)
	table := c.Param("table")
	id, err := parseID(c.Param("id"), table)
	if err != nil {
		s.fail(c, err)
		return
	}

	entries, err := env.RowAndLinksView(c.Request.Context(), table, id, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(entries) == 0 {
		s.fail(c, alerr.Newf(alerr.ErrRowNotFound, "no row %d in table '%s'", id, table).
			WithTable(table).
			With("id", id).
			WithArgs(table))
		return
	}

	t, _ := env.Catalog.Table(table)
	c.HTML(http.StatusOK, "view.html", gin.H{
		"Title":   t.ExternalName,
		"Table":   t,
		"ID":      id,
		"Entries": entries,
	})
}

func (s *Server) newForm(c *gin.Context) {
	env := s.envFrom(c)
	b := form.NewBuilder(env, s.cfg.formOptions()...)

	names := append([]string{c.Param("table")}, c.QueryArray("table")...)
	if err := b.AddTables(names, nil); err != nil {
		s.fail(c, err)
		return
	}
	for _, ref := range c.QueryArray("link") {
		l, err := form.ParseLink(ref)
		if err != nil {
			s.fail(c, err)
			return
		}
		if err := b.AddLink(l.Table, l.ID); err != nil {
			s.fail(c, err)
			return
		}
	}
	s.renderForm(c, b)
}

func (s *Server) editForm(c *gin.Context) {
	env := s.envFrom(c)
	table := c.Param("table")
	id, err := parseID(c.Param("id"), table)
	if err != nil {
		s.fail(c, err)
		return
	}

	b := form.NewBuilder(env, s.cfg.formOptions()...)
	if err := b.AddRowWithLinks(c.Request.Context(), table, id); err != nil {
		s.fail(c, err)
		return
	}
	s.renderForm(c, b)
}

func (s *Server) renderForm(c *gin.Context, b *form.Builder) {
	f, err := b.Build(c.Request.Context(), s.cfg.Action)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "form.html", gin.H{"Title": "Edit", "Form": f})
}

func (s *Server) submit(c *gin.Context) {
	res, err := s.process(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	first := res.Rows[0]
	c.Redirect(http.StatusSeeOther, "/tables/"+first.Table+"/"+strconv.FormatInt(first.ID, 10))
}

func (s *Server) delete(c *gin.Context) {
	env := s.envFrom(c)
	table := c.Param("table")
	id, err := parseID(c.Param("id"), table)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := env.DeleteRowAndLinks(c.Request.Context(), table, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tables/"+table)
}

// process parses the posted form and writes it.
func (s *Server) process(c *gin.Context) (*form.Result, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, alerr.Wrap(alerr.ErrRequiredField, err, "malformed form body")
	}
	sub, err := form.ParseSubmission(c.Request.PostForm)
	if err != nil {
		return nil, err
	}
	return form.Process(c.Request.Context(), s.envFrom(c), sub)
}

func parseID(raw, table string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, alerr.Newf(alerr.ErrInvalidRowID, "'%s' is not a row id", raw).
			WithTable(table).
			With("value", raw).
			WithArgs(raw, table)
	}
	return id, nil
}

// keyIndex returns the position of the primary key in a listing, or -1.
func keyIndex(t *model.Table, l *model.Listing) int {
	for i, col := range l.Columns {
		if col == t.PrimaryKey && t.PrimaryKey != "" {
			return i
		}
	}
	return -1
}
