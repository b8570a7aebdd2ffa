package gateway

import (
	"context"
	"net/http"

	"github.com/existflow/taskdeck/internal/model"
)

type wireUser struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"isEmailVerified"`
}

func (w wireUser) toModel() model.User {
	return model.User{
		ID:       w.ID,
		Name:     w.Name,
		Email:    w.Email,
		Verified: w.Verified,
	}
}

// RegisterResult is returned after signup; the account stays unverified
// until the emailed OTP is confirmed.
type RegisterResult struct {
	UserID  string
	Message string
}

// LoginResult is returned by Login. When RequiresVerification is set the
// caller must complete the OTP flow before a token is issued.
type LoginResult struct {
	Token                string
	User                 model.User
	RequiresVerification bool
	UserID               string
}

// Register creates an account and triggers the verification OTP email
func (c *Client) Register(ctx context.Context, name, email, password string) (RegisterResult, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var out struct {
		apiResponse
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out, "Registration failed"); err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{UserID: out.UserID, Message: out.Message}, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var out struct {
		apiResponse
		Token                string   `json:"token"`
		User                 wireUser `json:"user"`
		RequiresVerification bool     `json:"requiresVerification"`
		UserID               string   `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, "Login failed"); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:                out.Token,
		User:                 out.User.toModel(),
		RequiresVerification: out.RequiresVerification,
		UserID:               out.UserID,
	}, nil
}

// VerifyEmail confirms the emailed OTP and returns the session token
func (c *Client) VerifyEmail(ctx context.Context, userID, otp string) (LoginResult, error) {
	body := map[string]string{
		"userId": userID,
		"otp":    otp,
	}

	var out struct {
		apiResponse
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", body, &out, "Email verification failed"); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: out.Token, User: out.User.toModel()}, nil
}

// ResendOTP requests a fresh verification code
func (c *Client) ResendOTP(ctx context.Context, userID string) error {
	body := map[string]string{"userId": userID}

	var out struct {
		apiResponse
	}
	return c.do(ctx, http.MethodPost, "/auth/resend-otp", body, &out, "Failed to resend OTP")
}

// Me fetches the authenticated user
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out struct {
		apiResponse
		User wireUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out, "Failed to get user info"); err != nil {
		return model.User{}, err
	}
	return out.User.toModel(), nil
}
