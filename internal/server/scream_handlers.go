package server

import (
	"screams/internal/models"
	"screams/internal/service"

	"github.com/gofiber/fiber/v2"
)

type bodyRequest struct {
	Body string `json:"body"`
}

// GetScreams handles GET /api/screams
func (s *Server) GetScreams(c *fiber.Ctx) error {
	screams, err := s.screamService.ListScreams(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(screams)
}

// GetScream handles GET /api/scream/:id
func (s *Server) GetScream(c *fiber.Ctx) error {
	scream, err := s.screamService.GetScream(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(scream)
}

// PostScream handles POST /api/scream
func (s *Server) PostScream(c *fiber.Ctx) error {
	var req bodyRequest
	if !parseBody(c, &req) {
		return nil
	}

	scream, err := s.screamService.CreateScream(c.UserContext(), service.CreateScreamInput{
		Handle: currentHandle(c),
		Body:   req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(scream)
}

// CommentOnScream handles POST /api/scream/:id/comment
func (s *Server) CommentOnScream(c *fiber.Ctx) error {
	var req bodyRequest
	if !parseBody(c, &req) {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		Handle:   currentHandle(c),
		ScreamID: c.Params("id"),
		Body:     req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// LikeScream handles GET|POST /api/scream/:id/like
func (s *Server) LikeScream(c *fiber.Ctx) error {
	res, err := s.likeService.LikeScream(c.UserContext(), currentHandle(c), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// UnlikeScream handles GET|POST /api/scream/:id/unlike
func (s *Server) UnlikeScream(c *fiber.Ctx) error {
	scream, err := s.likeService.UnlikeScream(c.UserContext(), currentHandle(c), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(scream)
}

// DeleteScream handles DELETE /api/scream/:id
func (s *Server) DeleteScream(c *fiber.Ctx) error {
	err := s.screamService.DeleteScream(c.UserContext(), service.DeleteScreamInput{
		Handle:   currentHandle(c),
		ScreamID: c.Params("id"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return message(c, fiber.StatusOK, "Scream deleted successfully")
}
