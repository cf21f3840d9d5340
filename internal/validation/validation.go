// Package validation checks request bodies before handler logic runs.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Rule checks one field of a decoded body and returns a message on failure.
type Rule struct {
	Param string
	Msg   string
	Check func(value any, present bool) bool
}

// Required fails when the field is absent, blank, or an empty list.
func Required(param, msg string) Rule {
	return Rule{Param: param, Msg: msg, Check: func(v any, present bool) bool {
		return present && !isEmpty(v)
	}}
}

// Email fails unless the field is a well-formed address.
func Email(param, msg string) Rule {
	return Rule{Param: param, Msg: msg, Check: func(v any, present bool) bool {
		s, ok := v.(string)
		return present && ok && ValidateEmail(s) == nil
	}}
}

// MinLength fails unless the field is a string of at least n characters.
func MinLength(param string, n int, msg string) Rule {
	return Rule{Param: param, Msg: msg, Check: func(v any, present bool) bool {
		s, ok := v.(string)
		return present && ok && utf8.RuneCountInString(s) >= n
	}}
}

// MaxBytes fails when the field is a string longer than n bytes. Absent
// fields pass.
func MaxBytes(param string, n int, msg string) Rule {
	return Rule{Param: param, Msg: msg, Check: func(v any, present bool) bool {
		s, ok := v.(string)
		return !present || !ok || len(s) <= n
	}}
}

// ValidateEmail checks address format and length.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// Check runs every rule against body and collects all failures in rule order.
func Check(body map[string]any, rules ...Rule) []models.FieldError {
	var errs []models.FieldError
	for _, r := range rules {
		v, present := body[r.Param]
		if !r.Check(v, present) {
			errs = append(errs, models.FieldError{Msg: r.Msg, Param: r.Param, Location: "body"})
		}
	}
	return errs
}

// Body returns middleware that rejects the request with 400 and the full
// error list when any rule fails. Bodies that are not a JSON object are
// treated as empty.
func Body(rules ...Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := map[string]any{}
		if raw := c.Body(); len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				body = map[string]any{}
			}
		}

		if errs := Check(body, rules...); len(errs) > 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("invalid request body", errs...))
		}
		return c.Next()
	}
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
