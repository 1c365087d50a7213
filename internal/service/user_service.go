package service

import (
	"context"
	"strings"

	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/repository"
	"screams/internal/validation"
)

const recentNotificationsLimit = 10

type UserService struct {
	userRepo         repository.UserRepository
	screamRepo       repository.ScreamRepository
	likeRepo         repository.LikeRepository
	notificationRepo repository.NotificationRepository
	bus              events.Bus
	defaultImage     string
}

type RegisterInput struct {
	Handle string
	Email  string
}

type UpdateDetailsInput struct {
	Bio      string `json:"bio"`
	Website  string `json:"website"`
	Location string `json:"location"`
}

func NewUserService(
	userRepo repository.UserRepository,
	screamRepo repository.ScreamRepository,
	likeRepo repository.LikeRepository,
	notificationRepo repository.NotificationRepository,
	bus events.Bus,
	defaultImage string,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		screamRepo:       screamRepo,
		likeRepo:         likeRepo,
		notificationRepo: notificationRepo,
		bus:              bus,
		defaultImage:     defaultImage,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	handle := strings.TrimSpace(in.Handle)
	email := strings.TrimSpace(in.Email)
	if handle == "" {
		return nil, models.NewValidationError("Handle must not be empty")
	}
	if err := validation.ValidateHandle(handle); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError("Must be a valid email address")
	}

	_, err := s.userRepo.GetByHandle(ctx, handle)
	if err == nil {
		return nil, models.NewConflictError("this handle is already taken")
	}
	if !models.IsNotFound(err) {
		return nil, err
	}

	user := &models.User{Handle: handle, Email: email, ImageURL: s.defaultImage}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateImage stores a new display image and, when it differs from the
// current one, publishes the change so authored records pick it up.
func (s *UserService) UpdateImage(ctx context.Context, handle, imageURL string) (*models.User, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, models.NewValidationError("Image URL must not be empty")
	}

	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	oldImage := user.ImageURL
	if oldImage == imageURL {
		return user, nil
	}

	if err := s.userRepo.UpdateImage(ctx, handle, imageURL); err != nil {
		return nil, err
	}
	user.ImageURL = imageURL

	publish(ctx, s.bus, events.UserImageChanged(handle, oldImage, imageURL))
	return user, nil
}

// UpdateDetails stores the non-empty profile fields. A website without a
// scheme is stored with http://.
func (s *UserService) UpdateDetails(ctx context.Context, handle string, in UpdateDetailsInput) error {
	details := reduceUserDetails(in)
	if len(details) == 0 {
		return nil
	}
	return s.userRepo.UpdateDetails(ctx, handle, details)
}

func reduceUserDetails(in UpdateDetailsInput) map[string]interface{} {
	details := map[string]interface{}{}
	if bio := strings.TrimSpace(in.Bio); bio != "" {
		details["bio"] = bio
	}
	if website := strings.TrimSpace(in.Website); website != "" {
		if !strings.HasPrefix(website, "http") {
			website = "http://" + website
		}
		details["website"] = website
	}
	if location := strings.TrimSpace(in.Location); location != "" {
		details["location"] = location
	}
	return details
}

// GetAuthenticated returns the caller's profile, likes and most recent
// notifications.
func (s *UserService) GetAuthenticated(ctx context.Context, handle string) (*models.AuthenticatedUser, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.ListByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	notifications, err := s.notificationRepo.ListForRecipient(ctx, handle, recentNotificationsLimit)
	if err != nil {
		return nil, err
	}
	return &models.AuthenticatedUser{Credentials: user, Likes: likes, Notifications: notifications}, nil
}

func (s *UserService) GetDetails(ctx context.Context, handle string) (*models.UserDetails, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	screams, err := s.screamRepo.ListByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &models.UserDetails{User: user, Screams: screams}, nil
}
