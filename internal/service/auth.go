package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput is the registration form. ConfirmPassword is checked locally
// and never sent.
type SignupInput struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// ForgotPasswordInput requests a reset email.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput completes a reset with the emailed token.
type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginResult is the token and user a successful login returns.
type LoginResult struct {
	Token   string
	User    model.User
	Message string
}

// AuthService wraps the /auth endpoints.
type AuthService struct {
	client *apiclient.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{client: client}
}

// Login posts credentials. The backend's error message is propagated as-is.
func (s *AuthService) Login(ctx context.Context, in Credentials) (*LoginResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	env, err := apiclient.CallEnvelope[json.RawMessage](anonymous(ctx), s.client, http.MethodPost, "/auth/login", nil, in)
	if err != nil {
		return nil, err
	}

	token, user, err := decodeLogin(env)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user, Message: env.Message}, nil
}

// decodeLogin accepts both {token, data: user} and {data: {token, user}}.
func decodeLogin(env *apiclient.Envelope[json.RawMessage]) (string, model.User, error) {
	var nested struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	var user model.User

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &nested); err == nil && nested.User != nil {
			user = *nested.User
		} else if err := json.Unmarshal(env.Data, &user); err != nil {
			return "", model.User{}, unexpectedResponse(err)
		}
	}

	token := env.Token
	if token == "" {
		token = nested.Token
	}
	if token == "" || user.ID == "" {
		return "", model.User{}, unexpectedResponse(nil)
	}
	return token, user, nil
}

// anonymous drops any session token: the /auth endpoints are called
// without credentials.
func anonymous(ctx context.Context) context.Context {
	return apiclient.ContextWithToken(ctx, "")
}

func unexpectedResponse(err error) error {
	return &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusBadGateway, Message: "Unexpected response from server", Err: err}
}

// Signup registers an account. It does not sign the user in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	env, err := apiclient.CallEnvelope[json.RawMessage](anonymous(ctx), s.client, http.MethodPost, "/auth/signup", nil, signupPayload{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ForgotPassword asks the backend to email a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	env, err := apiclient.CallEnvelope[json.RawMessage](anonymous(ctx), s.client, http.MethodPost, "/auth/forgot-password", nil, in)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ResetPassword sets a new password using the emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	body := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{in.Token, in.Password}

	env, err := apiclient.CallEnvelope[json.RawMessage](anonymous(ctx), s.client, http.MethodPost, "/auth/reset-password", nil, body)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
