package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

type resendOTPRequest struct {
	UserID string `json:"userId"`
}

type wireUser struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"isEmailVerified"`
}

// handleRegister creates an unverified account and emails an OTP
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email, and password required")
	}

	if len(req.Password) < 8 {
		return fail(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	otp, err := generateOTP()
	if err != nil {
		c.Logger().Error("otp generation error:", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	var userID string
	err = s.db.QueryRow(`
		INSERT INTO users (name, email, password_hash, otp_code, otp_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		req.Name, req.Email, string(hash), otp, time.Now().Add(otpTTL),
	).Scan(&userID)

	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return fail(c, http.StatusConflict, "email already registered")
		}
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	if err := s.mailer.SendOTP(req.Email, req.Name, otp); err != nil {
		c.Logger().Error("mail error:", err)
	}

	c.Logger().Infof("User registered: %s", req.Email)

	return ok(c, map[string]interface{}{
		"message": "registered, verification code sent",
		"userId":  userID,
	})
}

// handleLogin authenticates with email and password. Unverified
// accounts get a fresh OTP and a requiresVerification response instead
// of a token.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	var userID, name, passwordHash string
	var verified bool
	err := s.db.QueryRow(`
		SELECT id, name, password_hash, verified FROM users WHERE email = $1`,
		req.Email,
	).Scan(&userID, &name, &passwordHash, &verified)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	if !verified {
		if err := s.issueOTP(c, userID, req.Email, name); err != nil {
			return fail(c, http.StatusInternalServerError, "internal error")
		}
		return ok(c, map[string]interface{}{
			"requiresVerification": true,
			"userId":               userID,
		})
	}

	token, _, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	c.Logger().Infof("User logged in: %s", req.Email)

	return ok(c, map[string]interface{}{
		"token": token,
		"user":  wireUser{ID: userID, Name: name, Email: req.Email, Verified: true},
	})
}

// handleVerifyEmail confirms the OTP and issues the first session
func (s *Server) handleVerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	var name, email, otpCode string
	var otpExpires time.Time
	err := s.db.QueryRow(`
		SELECT name, email, COALESCE(otp_code, ''), COALESCE(otp_expires_at, 'epoch'::timestamp)
		FROM users WHERE id = $1`,
		req.UserID,
	).Scan(&name, &email, &otpCode, &otpExpires)
	if err != nil {
		return fail(c, http.StatusNotFound, "user not found")
	}

	if otpCode == "" || req.OTP != otpCode {
		return fail(c, http.StatusBadRequest, "invalid verification code")
	}

	if time.Now().After(otpExpires) {
		return fail(c, http.StatusBadRequest, "verification code expired")
	}

	// Code is single use
	_, err = s.db.Exec(`
		UPDATE users SET verified = TRUE, otp_code = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`,
		req.UserID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	token, _, err := s.createSession(req.UserID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	c.Logger().Infof("Email verified: %s", email)

	return ok(c, map[string]interface{}{
		"message": "email verified",
		"token":   token,
		"user":    wireUser{ID: req.UserID, Name: name, Email: email, Verified: true},
	})
}

// handleResendOTP issues a fresh verification code
func (s *Server) handleResendOTP(c echo.Context) error {
	var req resendOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	var name, email string
	var verified bool
	err := s.db.QueryRow(`
		SELECT name, email, verified FROM users WHERE id = $1`,
		req.UserID,
	).Scan(&name, &email, &verified)
	if err != nil {
		return fail(c, http.StatusNotFound, "user not found")
	}

	if verified {
		return fail(c, http.StatusBadRequest, "email already verified")
	}

	if err := s.issueOTP(c, req.UserID, email, name); err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return ok(c, map[string]interface{}{"message": "verification code sent"})
}

// handleMe returns the authenticated user
func (s *Server) handleMe(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var name, email string
	var verified bool
	err := s.db.QueryRow(`
		SELECT name, email, verified FROM users WHERE id = $1`,
		userID,
	).Scan(&name, &email, &verified)
	if err != nil {
		return fail(c, http.StatusNotFound, "user not found")
	}

	return ok(c, map[string]interface{}{
		"user": wireUser{ID: userID, Name: name, Email: email, Verified: verified},
	})
}

// issueOTP stores a fresh code for the user and mails it
func (s *Server) issueOTP(c echo.Context, userID, email, name string) error {
	otp, err := generateOTP()
	if err != nil {
		c.Logger().Error("otp generation error:", err)
		return err
	}

	_, err = s.db.Exec(`
		UPDATE users SET otp_code = $1, otp_expires_at = $2, updated_at = NOW()
		WHERE id = $3`,
		otp, time.Now().Add(otpTTL), userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return err
	}

	if err := s.mailer.SendOTP(email, name, otp); err != nil {
		c.Logger().Error("mail error:", err)
	}
	return nil
}

// generateOTP returns a 6-digit verification code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// createSession creates a new session for a user
func (s *Server) createSession(userID string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Sessions expire in 30 days
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(`
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)

	return token, expiresAt, err
}
