package server

import (
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type textRequest struct {
	Text string `json:"text"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req textRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), middleware.UserID(c), req.Text)
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(models.ErrorResponse{Msg: service.MsgPostRemoved})
}

// LikePost handles PUT /api/posts/like/:id
func (s *Server) LikePost(c *fiber.Ctx) error {
	likes, err := s.postService.Like(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	likes, err := s.postService.Unlike(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/posts/comment/:id
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req textRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comments, err := s.postService.AddComment(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Text)
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/comment/:id/:comment_id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	comments, err := s.postService.DeleteComment(c.UserContext(),
		middleware.UserID(c), c.Params("id"), c.Params("comment_id"))
	if err != nil {
		return s.fail(c, err, fiber.StatusNotFound)
	}
	return c.JSON(comments)
}
