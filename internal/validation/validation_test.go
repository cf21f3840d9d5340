package validation

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "john@example.com", false},
		{"Plus Tag", "john+dev@example.co.uk", false},
		{"Missing At", "john.example.com", true},
		{"Missing TLD", "john@example", true},
		{"Empty", "", true},
		{"Too Long", strings.Repeat("a", 250) + "@x.io", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheck_CollectsAllFailures(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		Required("name", "Name is required"),
		Email("email", "Please include a valid email"),
		MinLength("password", 6, "Please enter a password with 6 or more characters"),
	}

	errs := Check(map[string]any{"name": "  ", "email": "nope", "password": "123"}, rules...)
	require.Len(t, errs, 3)
	assert.Equal(t, models.FieldError{Msg: "Name is required", Param: "name", Location: "body"}, errs[0])
	assert.Equal(t, "email", errs[1].Param)
	assert.Equal(t, "password", errs[2].Param)

	assert.Empty(t, Check(map[string]any{"name": "John", "email": "john@example.com", "password": "123456"}, rules...))
}

func TestRequired_AcceptsListsAndRejectsEmptyOnes(t *testing.T) {
	t.Parallel()
	r := Required("skills", "Skills is required")

	assert.Len(t, Check(map[string]any{"skills": []any{}}, r), 1)
	assert.Len(t, Check(map[string]any{}, r), 1)
	assert.Empty(t, Check(map[string]any{"skills": []any{"go"}}, r))
	assert.Empty(t, Check(map[string]any{"skills": "go, react"}, r))
}

func TestBodyMiddleware(t *testing.T) {
	app := fiber.New()
	app.Post("/", Body(Required("text", "Text is required")), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"text":"hello"}`, 200},
		{"missing", `{}`, 400},
		{"not json", `text=hello`, 400},
		{"empty", ``, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == 400 {
				var body models.ValidationResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				require.Len(t, body.Errors, 1)
				assert.Equal(t, "Text is required", body.Errors[0].Msg)
				assert.Equal(t, "body", body.Errors[0].Location)
			}
		})
	}
}

func TestMaxBytes(t *testing.T) {
	rule := MaxBytes("password", 4, "too long")
	assert.Empty(t, Check(map[string]any{"password": "abcd"}, rule))
	assert.Empty(t, Check(map[string]any{}, rule))
	assert.Equal(t, []models.FieldError{{Msg: "too long", Param: "password", Location: "body"}},
		Check(map[string]any{"password": "abcde"}, rule))
	assert.Len(t, Check(map[string]any{"password": "ééé"}, rule), 1, "counts bytes, not runes")
}
