package service

import (
	"context"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// UserStatusInput changes an account's status.
type UserStatusInput struct {
	AccountStatus model.AccountStatus `json:"accountStatus" validate:"required,oneof=active suspended pending"`
}

// UserService wraps /admin/users.
type UserService struct {
	client *apiclient.Client
	users  Resource[model.User, struct{}]
}

// NewUserService creates a new UserService.
func NewUserService(client *apiclient.Client) *UserService {
	return &UserService{
		client: client,
		users:  newResource[model.User, struct{}](client, "/admin/users"),
	}
}

// List returns accounts. q.Category filters by role.
func (s *UserService) List(ctx context.Context, q model.ListQuery) ([]model.User, *model.Pagination, error) {
	values := queryValues(q)
	if role := values.Get("category"); role != "" {
		values.Del("category")
		values.Set("role", role)
	}

	env, err := apiclient.CallEnvelope[[]model.User](ctx, s.client, http.MethodGet, "/admin/users", values, nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		env.Data = []model.User{}
	}
	return env.Data, env.Pagination, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.users.Get(ctx, id)
}

// UpdateStatus activates, suspends or resets an account to pending.
func (s *UserService) UpdateStatus(ctx context.Context, id string, in UserStatusInput) (model.User, error) {
	if err := requireID(id); err != nil {
		return model.User{}, err
	}
	if err := Validate(in); err != nil {
		return model.User{}, err
	}
	return apiclient.Call[model.User](ctx, s.client, http.MethodPatch, joinPath("/admin/users", id, "status"), nil, in)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
