package api

import (
	"context"
	"net/http"

	"github.com/alextreichler/gizmogrid/internal/models"
)

func (c *Client) CountUsers(ctx context.Context) (int, error) {
	var out models.UserCount
	if err := c.do(ctx, http.MethodGet, "/api/users/count", "", nil, &out); err != nil {
		return 0, err
	}
	return out.TotalUsers, nil
}

// ListUsers is admin-only and needs the caller's bearer token.
func (c *Client) ListUsers(ctx context.Context, token string, page, limit int, search string) (*models.UserPage, error) {
	var out models.UserPage
	path := "/api/users/" + pageQuery(page, limit, "search", search)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, d models.UserDraft) error {
	return c.do(ctx, http.MethodPost, "/api/users", token, d, nil)
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, d models.UserDraft) error {
	return c.do(ctx, http.MethodPatch, "/api/users/"+segment(id), token, d, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+segment(id), token, nil, nil)
}

// Login exchanges credentials for the user record carrying a session token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/api/users/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, d models.RegisterDraft) error {
	return c.do(ctx, http.MethodPost, "/api/users/register", "", d, nil)
}

func (c *Client) Profile(ctx context.Context, token, id string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+segment(id)+"/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token, id string, d models.ProfileDraft) error {
	return c.do(ctx, http.MethodPatch, "/api/users/"+segment(id)+"/profile", token, d, nil)
}
