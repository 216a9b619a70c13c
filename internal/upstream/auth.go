package upstream

import (
	"context"
	"net/http"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
)

type LoginResult struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}

// Login exchanges credentials for a bearer token. The request itself is
// unauthenticated.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.UserProfile, error) {
	var user domain.UserProfile
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var user domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
