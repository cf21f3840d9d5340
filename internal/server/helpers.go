package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/service"
	"devconnector/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var errInvalidDate = errors.New("invalid date")

// Request validators, run ahead of the handlers.
var (
	registerRules = validation.Body(
		validation.Required("name", "Name is required"),
		validation.Email("email", "Please include a valid email"),
		validation.MinLength("password", 6, "Please enter a password with 6 or more characters"),
		validation.MaxBytes("password", auth.MaxPasswordBytes, service.MsgPasswordTooLong),
	)
	loginRules = validation.Body(
		validation.Email("email", "Please include a valid email"),
		validation.Required("password", "Password is required"),
	)
	profileRules = validation.Body(
		validation.Required("status", "Status is required"),
		skillsRule,
	)
	experienceRules = validation.Body(
		validation.Required("title", "Title is required"),
		validation.Required("company", "Company is required"),
		validation.Required("from", "From date is required"),
	)
	educationRules = validation.Body(
		validation.Required("school", "School is required"),
		validation.Required("degree", "Degree is required"),
		validation.Required("fieldofstudy", "Field of study is required"),
		validation.Required("from", "From date is required"),
	)
	postRules    = validation.Body(validation.Required("text", "Text is required"))
	commentRules = postRules
)

// skillsRule requires at least one non-blank skill after splitting.
var skillsRule = validation.Rule{Param: "skills", Msg: "Skills is required", Check: func(v any, present bool) bool {
	switch val := v.(type) {
	case string:
		return len(service.SplitSkills(val)) > 0
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return true
			}
		}
	}
	return false
}}

// fail writes err with the status it maps to. Server errors are logged
// here because their body never reveals the cause.
func (s *Server) fail(c *fiber.Ctx, err error, notFoundStatus int) error {
	status := models.StatusFor(err, notFoundStatus)
	if status >= fiber.StatusInternalServerError {
		observability.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the request body into out. A malformed body or date is
// answered with 400 and errResponseWritten.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		msg := "Invalid request body"
		if errors.Is(err, errInvalidDate) {
			msg = "Dates must be formatted as YYYY-MM-DD"
		}
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(msg))
		return errResponseWritten
	}
	return nil
}

// errResponseWritten means a helper already committed the response.
// Handlers return nil after seeing it.
var errResponseWritten = errors.New("response already written")

// skillList accepts either "go, sql" or ["go", "sql"].
type skillList []string

func (l *skillList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*l = service.SplitSkills(raw)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*l = out
	return nil
}

// date accepts "2006-01-02" or RFC 3339 timestamps.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errInvalidDate
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return errInvalidDate
}

// ptr returns nil for a nil or zero date.
func (d *date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
