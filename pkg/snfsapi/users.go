package snfsapi

import (
	"context"
	"fmt"
	"net/http"
)

// Register creates an account and returns the new user.
func (c *Client) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/users/register", username, password)
}

// Login checks the credentials and returns the matching user.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/users/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*AuthResponse, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	var out AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, path, Credentials{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
