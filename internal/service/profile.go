package service

import (
	"context"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// ProfileInput is the profile edit form.
type ProfileInput struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// PasswordChangeInput is the change-password form.
type PasswordChangeInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// ProfileService wraps /user/profile.
type ProfileService struct {
	client *apiclient.Client
}

// NewProfileService creates a new ProfileService.
func NewProfileService(client *apiclient.Client) *ProfileService {
	return &ProfileService{client: client}
}

// Get returns the signed-in user's profile.
func (s *ProfileService) Get(ctx context.Context) (model.User, error) {
	return apiclient.Call[model.User](ctx, s.client, http.MethodGet, "/user/profile", nil, nil)
}

// Update saves the profile and returns the updated user.
func (s *ProfileService) Update(ctx context.Context, in ProfileInput) (model.User, error) {
	if err := Validate(in); err != nil {
		return model.User{}, err
	}
	return apiclient.Call[model.User](ctx, s.client, http.MethodPut, "/user/profile", nil, in)
}

// ChangePassword replaces the password. ConfirmPassword is not sent.
func (s *ProfileService) ChangePassword(ctx context.Context, in PasswordChangeInput) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	body := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{in.CurrentPassword, in.NewPassword}

	env, err := apiclient.CallEnvelope[struct{}](ctx, s.client, http.MethodPut, "/user/profile/password", nil, body)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
