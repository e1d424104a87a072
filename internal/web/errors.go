package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hlop3z/linkdb/internal/alerr"
)

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := alerr.GetErrorCode(err)
	switch code {
	case alerr.ErrInvalidTableName, alerr.ErrRowNotFound, alerr.ErrInvalidRowID:
		return http.StatusNotFound
	case alerr.ErrNoRowsAffected:
		return http.StatusConflict
	case alerr.ErrSQLConnection:
		return http.StatusServiceUnavailable
	}
	if strings.HasPrefix(string(code), "E2") || code == alerr.ErrInvalidColumnName {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// errorBody is the JSON and template view of an error.
type errorBody struct {
	Code     string         `json:"code,omitempty"`
	Message  string         `json:"message"`
	Severity string         `json:"severity"`
	Context  map[string]any `json:"context,omitempty"`
	Notes    []string       `json:"notes,omitempty"`
	Helps    []string       `json:"helps,omitempty"`
}

// describe applies the message catalog and flattens err for rendering.
// SQL text and wrapped causes are logged, never shown.
func (s *Server) describe(c *gin.Context, err error) (int, errorBody) {
	err = s.messages.Apply(err)
	status := statusFor(err)

	var ae *alerr.Error
	if !errors.As(err, &ae) {
		s.logger.Error("unhandled error", "error", err, "request_id", c.GetString(keyRequestID))
		return http.StatusInternalServerError, errorBody{Message: "internal error", Severity: alerr.SeverityError.String()}
	}

	body := errorBody{
		Code:     string(ae.GetCode()),
		Message:  ae.GetMessage(),
		Severity: ae.GetSeverity().String(),
		Notes:    ae.Notes(),
		Helps:    ae.Helps(),
	}
	for k, v := range ae.GetContext() {
		switch k {
		case "sql", "notes", "helps":
			continue
		}
		if body.Context == nil {
			body.Context = make(map[string]any)
		}
		body.Context[k] = v
	}

	if status >= 500 {
		s.logger.Error("request failed", "error", err, "request_id", c.GetString(keyRequestID))
	} else {
		s.logger.Debug("request rejected", "code", body.Code, "message", body.Message)
	}
	return status, body
}

func (s *Server) fail(c *gin.Context, err error) {
	status, body := s.describe(c, err)
	c.HTML(status, "error.html", gin.H{"Title": "Error", "Error": body})
}

func (s *Server) failJSON(c *gin.Context, err error) {
	status, body := s.describe(c, err)
	c.JSON(status, gin.H{"status": "error", "error": body})
}
