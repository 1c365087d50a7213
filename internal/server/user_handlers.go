package server

import (
	"screams/internal/models"
	"screams/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Handle string `json:"handle"`
	Email  string `json:"email"`
}

type imageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// Signup handles POST /api/signup. Credentials and tokens are managed by the
// identity provider; this only registers the profile.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{Handle: req.Handle, Email: req.Email})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UploadImage handles POST /api/user/image
func (s *Server) UploadImage(c *fiber.Ctx) error {
	var req imageRequest
	if !parseBody(c, &req) {
		return nil
	}

	if _, err := s.userService.UpdateImage(c.UserContext(), currentHandle(c), req.ImageURL); err != nil {
		return models.RespondWithError(c, err)
	}
	return message(c, fiber.StatusOK, "Image uploaded successfully")
}

// AddUserDetails handles POST /api/user
func (s *Server) AddUserDetails(c *fiber.Ctx) error {
	var req service.UpdateDetailsInput
	if !parseBody(c, &req) {
		return nil
	}

	if err := s.userService.UpdateDetails(c.UserContext(), currentHandle(c), req); err != nil {
		return models.RespondWithError(c, err)
	}
	return message(c, fiber.StatusOK, "Details added successfully")
}

// GetAuthenticatedUser handles GET /api/user
func (s *Server) GetAuthenticatedUser(c *fiber.Ctx) error {
	user, err := s.userService.GetAuthenticated(c.UserContext(), currentHandle(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUserDetails handles GET /api/user/:handle
func (s *Server) GetUserDetails(c *fiber.Ctx) error {
	details, err := s.userService.GetDetails(c.UserContext(), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(details)
}

// MarkNotificationsRead handles POST /api/notifications with a JSON array
// of notification ids.
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	var ids []string
	if !parseBody(c, &ids) {
		return nil
	}

	if _, err := s.notificationService.MarkRead(c.UserContext(), currentHandle(c), ids); err != nil {
		return models.RespondWithError(c, err)
	}
	return message(c, fiber.StatusOK, "Notifications marked read")
}
