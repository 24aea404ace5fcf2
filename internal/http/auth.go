package httpserver

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"storeratings/internal/auth"
	"storeratings/internal/domain"
	"storeratings/internal/repository"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(20, 60)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Address, validation.Length(0, 400)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 16)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (r updatePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 16)),
	)
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.respondValidationError(w, err)
		return
	}
	if !auth.MeetsPasswordPolicy(req.Password) {
		s.respondError(w, http.StatusBadRequest, "POLICY_VIOLATION", "Password does not meet policy")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Email already in use")
			return
		}
		s.logger.Printf("create account error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.Printf("issue token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}

	s.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.respondValidationError(w, err)
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		s.logger.Printf("login lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	if err := auth.ComparePasswordAndHash(req.Password, user.PasswordHash); err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.Printf("issue token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req updatePasswordRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.respondValidationError(w, err)
		return
	}
	if !auth.MeetsPasswordPolicy(req.NewPassword) {
		s.respondError(w, http.StatusBadRequest, "POLICY_VIOLATION", "Password does not meet policy")
		return
	}

	user, err := s.repo.Users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		s.logger.Printf("password update lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update password")
		return
	}

	if err := auth.ComparePasswordAndHash(req.OldPassword, user.PasswordHash); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Old password incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update password")
		return
	}

	if err := s.repo.Users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		s.logger.Printf("password update error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update password")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
