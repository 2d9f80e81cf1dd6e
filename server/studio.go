package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/report"
	"github.com/existflow/awaree/internal/studio"
	"github.com/labstack/echo/v4"
)

// ProjectSummary is a project without its journal, moodboard and versions
type ProjectSummary struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Subject    string       `json:"subject"`
	Type       string       `json:"type"`
	Status     model.Status `json:"status"`
	Progress   int          `json:"progress"`
	IsUrgent   bool         `json:"isUrgent"`
	IsArchived bool         `json:"isArchived"`
	Tasks      int          `json:"tasks"`
	Done       int          `json:"done"`
	Deadline   *int64       `json:"deadline,omitempty"`
	UpdatedAt  int64        `json:"updatedAt"`
}

func summarize(p model.Project) ProjectSummary {
	return ProjectSummary{
		ID:         p.ID,
		Name:       p.Name,
		Subject:    p.Subject,
		Type:       string(p.Type),
		Status:     p.Status,
		Progress:   p.Progress,
		IsUrgent:   p.IsUrgent,
		IsArchived: p.IsArchived,
		Tasks:      len(p.Tasks),
		Done:       p.CompletedTasks(),
		Deadline:   p.Deadline,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ImportResponse tells what an import did
type ImportResponse struct {
	Action      string   `json:"action"`
	ProjectID   string   `json:"projectId,omitempty"`
	Collections []string `json:"collections,omitempty"`
}

func (s *Server) handleListProjects(c echo.Context) error {
	archived, _ := strconv.ParseBool(c.QueryParam("archived"))
	by, err := studio.ParseSortBy(c.QueryParam("sort"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	state := s.store.Load(c.Request().Context())
	projects := studio.SortProjects(state.Projects, archived, by)

	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, summarize(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) findProject(c echo.Context) (model.Project, bool) {
	state := s.store.Load(c.Request().Context())
	idx := studio.IndexOf(state.Projects, c.Param("id"))
	if idx < 0 {
		return model.Project{}, false
	}
	return state.Projects[idx], true
}

func (s *Server) handleGetProject(c echo.Context) error {
	p, ok := s.findProject(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "project not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleProjectReport(c echo.Context) error {
	p, ok := s.findProject(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "project not found")
	}
	data, err := report.Encode(p, s.now())
	if err != nil {
		logger.Error("Failed to render report", logger.F("project", p.ID), logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to render report")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.FileName(p)))
	return c.Blob(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, data)
}

func (s *Server) handleListEvents(c echo.Context) error {
	period, err := studio.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	var tags []model.EventType
	for _, t := range c.QueryParams()["tag"] {
		tag := model.EventType(t)
		if !tag.Valid() {
			return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("unknown event tag %q", t))
		}
		tags = append(tags, tag)
	}

	state := s.store.Load(c.Request().Context())
	events := studio.FilterEvents(state.Events, studio.EventFilter{
		Tags:   tags,
		Period: period,
		Query:  c.QueryParam("q"),
	}, s.now())
	return c.JSON(http.StatusOK, events)
}

func (s *Server) handleStats(c echo.Context) error {
	state := s.store.Load(c.Request().Context())
	return c.JSON(http.StatusOK, studio.ComputeStats(state.Projects))
}

func (s *Server) handleBackup(c echo.Context) error {
	now := s.now()
	state := s.store.Load(c.Request().Context())
	data, err := report.EncodeBackup(state, now)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to encode backup")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.BackupFileName(now)))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// readUpload returns the imported file from a multipart "file" field or the
// raw body, with the format it was sent as
func readUpload(c echo.Context) ([]byte, report.Kind, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, 0, fmt.Errorf("missing file field: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, 0, err
		}
		return data, report.KindFromName(fh.Filename), nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, 0, err
	}
	kind := report.KindJSON
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMETextHTML) ||
		bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		kind = report.KindHTML
	}
	return data, kind, nil
}

func (s *Server) handleImport(c echo.Context) error {
	data, kind, err := readUpload(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	replace, _ := strconv.ParseBool(c.QueryParam("replace"))

	payload, err := report.DecodeSealed(data, kind, c.Request().Header.Get("X-Awaree-Passphrase"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, report.ErrSealed) {
			status = http.StatusUnauthorized
		}
		logger.Warn("Import rejected", logger.F("error", err))
		return errorJSON(c, status, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := c.Request().Context()
	before := s.store.Load(ctx)

	if payload.Backup != nil {
		keys := payload.Backup.Collections()
		if !replace {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error":       "a backup replaces existing data, retry with replace=true",
				"collections": keys,
			})
		}
		after := studio.RestoreBackup(before, *payload.Backup)
		if err := s.store.Save(ctx, before, after); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "failed to save studio")
		}
		logger.Info("Backup restored", logger.F("collections", keys))
		return c.JSON(http.StatusOK, ImportResponse{Action: "restore", Collections: keys})
	}

	incoming := *payload.Project
	incoming.Normalize()
	confirm := studio.Never
	if replace {
		confirm = studio.Always
	}
	result := studio.MergeProject(before.Projects, incoming, confirm)
	if result.Action == studio.MergeNoOp {
		return c.JSON(http.StatusConflict, map[string]string{
			"error":     "project already exists, retry with replace=true",
			"projectId": incoming.ID,
		})
	}

	after := before
	after.Projects = result.Projects
	if err := s.store.Save(ctx, before, after); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "failed to save studio")
	}
	logger.Info("Project imported", logger.F("project", incoming.ID), logger.F("action", result.Action.String()))

	status := http.StatusCreated
	if result.Action == studio.MergeReplace {
		status = http.StatusOK
	}
	return c.JSON(status, ImportResponse{Action: result.Action.String(), ProjectID: incoming.ID})
}
