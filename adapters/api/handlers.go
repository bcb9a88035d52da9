package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
	apperrors "carestats/internal/errors"
)

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Dataset *dataset.Dataset `json:"dataset"`
	Plan    *stats.Plan      `json:"plan,omitempty"`
}

// ErrorResponse is returned for every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error(), Code: apperrors.CodeInvalidInput})
			return
		}
		s.fail(c, apperrors.Wrap(apperrors.WithCode(apperrors.CodeInvalidInput, err), "malformed request body"))
		return
	}
	if req.Dataset == nil {
		s.fail(c, apperrors.InvalidInput("dataset is required"))
		return
	}

	plan := s.opts.DefaultPlan
	if s.opts.PlanSource != nil {
		plan = s.opts.PlanSource()
	}
	if req.Plan != nil {
		plan = *req.Plan
	}

	report, err := s.runner.Run(c.Request.Context(), req.Dataset, plan)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(c, apperrors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	list, err := s.runner.List(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list})
}

func (s *Server) handleGetReport(c *gin.Context) {
	id, err := core.ParseReportID(c.Param("id"))
	if err != nil {
		s.fail(c, apperrors.Wrap(apperrors.WithCode(apperrors.CodeInvalidInput, err), "invalid report id"))
		return
	}
	report, err := s.runner.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: apperrors.GetCode(err)})
}
