package client

import (
	"context"
	"fmt"
	"net/http"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"user_roles" validate:"omitempty,oneof=seller manager"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type registerResponse struct {
	User User `json:"user"`
}

// Me fetches the profile of the token holder
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "fetch profile", http.MethodGet, "/api/user/me", nil, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates the user and returns the access token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	reqBody := LoginRequest{
		Email:    email,
		Password: password,
	}
	if err := validateRequest(reqBody); err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/user/login/", reqBody, http.StatusOK, &loginResp); err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp registerResponse
	if err := c.do(ctx, "register", http.MethodPost, "/api/user/register/", req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Refresh exchanges a refresh token for a new access token
func (c *Client) Refresh(ctx context.Context, refresh string) (string, error) {
	reqBody := refreshRequest{Refresh: refresh}
	if err := validateRequest(reqBody); err != nil {
		return "", err
	}

	var resp refreshResponse
	if err := c.do(ctx, "refresh token", http.MethodPost, "/api/user/token/refresh/", reqBody, http.StatusOK, &resp); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("refresh token: response carries no access token")
	}
	return resp.Access, nil
}
