package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/model"
	"github.com/hlop3z/linkdb/internal/sqlgen"
)

type linkJSON struct {
	Junction string  `json:"junction"`
	Table    string  `json:"table"`
	IDs      []int64 `json:"ids"`
	Joined   string  `json:"joined"`
}

func toLinkJSON(sets []model.LinkSet) []linkJSON {
	out := make([]linkJSON, len(sets))
	for i, s := range sets {
		out[i] = linkJSON{Junction: s.Junction, Table: s.Table, IDs: s.IDs, Joined: s.Joined()}
	}
	return out
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

func (s *Server) apiTables(c *gin.Context) {
	success(c, http.StatusOK, s.envFrom(c).Catalog.Describe())
}

// apiRows lists rows; every query parameter is an equality filter on a column.
func (s *Server) apiRows(c *gin.Context) {
	var filter model.Filter
	for col, vals := range c.Request.URL.Query() {
		for _, v := range vals {
			filter = append(filter, sqlgen.Eq(col, v))
		}
	}

	l, err := s.envFrom(c).GetRows(c.Request.Context(), c.Param("table"), filter)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	rows := l.Rows
	if rows == nil {
		rows = [][]string{}
	}
	success(c, http.StatusOK, gin.H{
		"table":   l.Table,
		"columns": l.Columns,
		"header":  l.Header,
		"rows":    rows,
	})
}

func (s *Server) apiRow(c *gin.Context) {
	env := s.envFrom(c)
	table := c.Param("table")
	id, err := parseID(c.Param("id"), table)
	if err != nil {
		s.failJSON(c, err)
		return
	}

	row, err := env.GetRow(c.Request.Context(), table, id)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	if len(row) == 0 {
		s.failJSON(c, alerr.Newf(alerr.ErrRowNotFound, "no row %d in table '%s'", id, table).
			WithTable(table).
			With("id", id).
			WithArgs(table))
		return
	}
	links, err := env.GetLinks(c.Request.Context(), table, id)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"row": row, "links": toLinkJSON(links)})
}

func (s *Server) apiLinks(c *gin.Context) {
	table := c.Param("table")
	id, err := parseID(c.Param("id"), table)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	links, err := s.envFrom(c).GetLinks(c.Request.Context(), table, id)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	success(c, http.StatusOK, toLinkJSON(links))
}

func (s *Server) apiDelete(c *gin.Context) {
	table := c.Param("table")
	id, err := parseID(c.Param("id"), table)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	if err := s.envFrom(c).DeleteRowAndLinks(c.Request.Context(), table, id); err != nil {
		s.failJSON(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"table": table, "id": id})
}

func (s *Server) apiSubmit(c *gin.Context) {
	res, err := s.process(c)
	if err != nil {
		s.failJSON(c, err)
		return
	}
	success(c, http.StatusCreated, res)
}
