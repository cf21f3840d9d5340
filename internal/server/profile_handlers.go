package server

import (
	"errors"
	"log/slog"

	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Profile routes answer a missing profile with 400, not 404.
const profileNotFound = fiber.StatusBadRequest

type profileRequest struct {
	Company        *string   `json:"company"`
	Website        *string   `json:"website"`
	Location       *string   `json:"location"`
	Bio            *string   `json:"bio"`
	Status         *string   `json:"status"`
	GitHubUsername *string   `json:"githubusername"`
	Skills         skillList `json:"skills"`
	YouTube        *string   `json:"youtube"`
	Twitter        *string   `json:"twitter"`
	Facebook       *string   `json:"facebook"`
	LinkedIn       *string   `json:"linkedin"`
	Instagram      *string   `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        date   `json:"from"`
	To          *date  `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         date   `json:"from"`
	To           *date  `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetMine(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.Upsert(c.UserContext(), service.ProfileInput{
		UserID:         middleware.UserID(c),
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GitHubUsername: req.GitHubUsername,
		Skills:         req.Skills,
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.UserContext())
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:user_id
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	profile, err := s.profileService.GetByUserID(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.UserContext(), middleware.UserID(c)); err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(models.ErrorResponse{Msg: service.MsgUserDeleted})
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req experienceRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), middleware.UserID(c), models.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From.Time,
		To:          req.To.ptr(),
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// DeleteExperience handles DELETE /api/profile/experience/:exp_id
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveExperience(c.UserContext(), middleware.UserID(c), c.Params("exp_id"))
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req educationRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), middleware.UserID(c), models.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From.Time,
		To:           req.To.ptr(),
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// DeleteEducation handles DELETE /api/profile/education/:edu_id
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveEducation(c.UserContext(), middleware.UserID(c), c.Params("edu_id"))
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(profile)
}

// GetGitHubRepos handles GET /api/profile/github/:username. A transport
// failure is logged and the request completes with an empty 200.
func (s *Server) GetGitHubRepos(c *fiber.Ctx) error {
	repos, err := s.profileService.GitHubRepos(c.UserContext(), c.Params("username"))
	if errors.Is(err, service.ErrGitHubUnavailable) {
		observability.Logger.ErrorContext(c.UserContext(), "github lookup failed",
			slog.String("username", c.Params("username")),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if err != nil {
		return s.fail(c, err, profileNotFound)
	}
	return c.JSON(repos)
}
