package server

import (
	"devconnector/internal/middleware"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return s.fail(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(tokenResponse{Token: token})
}

// Login handles POST /api/auth
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.userService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.fail(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(tokenResponse{Token: token})
}

// GetAuthUser handles GET /api/auth
func (s *Server) GetAuthUser(c *fiber.Ctx) error {
	user, err := s.userService.CurrentUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(user)
}
