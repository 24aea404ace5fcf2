package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"storeratings/internal/auth"
	"storeratings/internal/domain"
	"storeratings/internal/repository"
)

type adminCreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r adminCreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(20, 60)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Address, validation.Length(0, 400)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 16)),
		validation.Field(&r.Role, validation.Required, validation.In(
			string(domain.RoleUser), string(domain.RoleOwner), string(domain.RoleAdmin),
		)),
	)
}

type adminCreateStoreRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	OwnerID string `json:"ownerId"`
}

func (r adminCreateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Address, validation.Length(0, 400)),
		validation.Field(&r.OwnerID, validation.Required),
	)
}

type dashboardResponse struct {
	UserCount   int64 `json:"userCount"`
	StoreCount  int64 `json:"storeCount"`
	RatingCount int64 `json:"ratingCount"`
}

type adminUserResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Address string   `json:"address"`
	Role    string   `json:"role"`
	Rating  *float64 `json:"rating,omitempty"`
}

type adminStoreResponse struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Address string       `json:"address"`
	Rating  float64      `json:"rating"`
	Owner   userResponse `json:"owner"`
}

type storeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	userCount, err := s.repo.Users.Count(r.Context())
	if err != nil {
		s.logger.Printf("count users error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}
	storeCount, err := s.repo.Stores.Count(r.Context())
	if err != nil {
		s.logger.Printf("count stores error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}
	ratingCount, err := s.repo.Ratings.Count(r.Context())
	if err != nil {
		s.logger.Printf("count ratings error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}

	s.respondJSON(w, http.StatusOK, dashboardResponse{
		UserCount:   userCount,
		StoreCount:  storeCount,
		RatingCount: ratingCount,
	})
}

func buildUserListFilters(query url.Values) (repository.UserListFilters, error) {
	var filters repository.UserListFilters

	if q := strings.TrimSpace(query.Get("q")); q != "" {
		filters.Query = &q
	}
	if val := strings.TrimSpace(query.Get("role")); val != "" {
		role, ok := domain.ParseRole(val)
		if !ok {
			return filters, fmt.Errorf("invalid role value")
		}
		filters.Role = &role
	}
	filters.SortBy = strings.TrimSpace(query.Get("sortBy"))
	filters.SortOrder = strings.TrimSpace(query.Get("sortOrder"))
	return filters, nil
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	filters, err := buildUserListFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	users, err := s.repo.Users.List(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list users error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	items := make([]adminUserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, adminUserResponse{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Address: user.Address,
			Role:    string(user.Role),
			Rating:  user.StoreRating,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminCreateUserRequest
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
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         domain.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Email already in use")
			return
		}
		s.logger.Printf("create user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func buildStoreListFilters(query url.Values) repository.StoreListFilters {
	var filters repository.StoreListFilters
	if q := strings.TrimSpace(query.Get("q")); q != "" {
		filters.Query = &q
	}
	filters.SortBy = strings.TrimSpace(query.Get("sortBy"))
	filters.SortOrder = strings.TrimSpace(query.Get("sortOrder"))
	return filters
}

func (s *Server) handleAdminListStores(w http.ResponseWriter, r *http.Request) {
	filters := buildStoreListFilters(r.URL.Query())

	stores, err := s.repo.Stores.ListWithOwner(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list stores error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list stores")
		return
	}

	items := make([]adminStoreResponse, 0, len(stores))
	for _, store := range stores {
		items = append(items, adminStoreResponse{
			ID:      store.ID,
			Name:    store.Name,
			Email:   store.Email,
			Address: store.Address,
			Rating:  store.OverallRating,
			Owner: userResponse{
				ID:    store.OwnerID,
				Name:  store.OwnerName,
				Email: store.OwnerEmail,
			},
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAdminCreateStore(w http.ResponseWriter, r *http.Request) {
	var req adminCreateStoreRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.respondValidationError(w, err)
		return
	}

	owner, err := s.repo.Users.GetByID(r.Context(), req.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Owner user not found")
			return
		}
		s.logger.Printf("owner lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create store")
		return
	}
	if !owner.Role.CanOwnStore() {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "User is not an OWNER")
		return
	}

	store, err := s.repo.Stores.Create(r.Context(), repository.StoreCreateParams{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: owner.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Owner already has a store or the contact email is in use")
			return
		}
		s.logger.Printf("create store error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create store")
		return
	}

	s.respondJSON(w, http.StatusCreated, storeResponse{
		ID:        store.ID,
		Name:      store.Name,
		Email:     store.Email,
		Address:   store.Address,
		OwnerID:   store.OwnerID,
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	})
}
