package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"storeratings/internal/domain"
	"storeratings/internal/repository"
)

type rateStoreRequest struct {
	Value   int     `json:"value"`
	Comment *string `json:"comment"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	UserID    string    `json:"userId"`
	Value     int       `json:"value"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type storeListingResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	OverallRating float64 `json:"overallRating"`
	UserRating    *int    `json:"userRating"`
}

func toRatingResponse(rating domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        rating.ID,
		StoreID:   rating.StoreID,
		UserID:    rating.UserID,
		Value:     rating.Value,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var query *string
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		query = &q
	}

	listings, err := s.repo.Stores.ListForViewer(r.Context(), identity.UserID, query)
	if err != nil {
		s.logger.Printf("list stores error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list stores")
		return
	}

	items := make([]storeListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, storeListingResponse{
			ID:            listing.ID,
			Name:          listing.Name,
			Address:       listing.Address,
			OverallRating: listing.OverallRating,
			UserRating:    listing.UserRating,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleRateStore(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	storeID := chi.URLParam(r, "storeID")
	if storeID == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing store identifier")
		return
	}

	var req rateStoreRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Value < 1 || req.Value > 5 {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "value must be an integer between 1 and 5")
		return
	}

	if _, err := s.repo.Stores.GetByID(r.Context(), storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Store not found")
			return
		}
		s.logger.Printf("fetch store for rating failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	rating, inserted, err := s.repo.Ratings.Upsert(r.Context(), repository.RatingUpsertParams{
		UserID:  identity.UserID,
		StoreID: storeID,
		Value:   req.Value,
		Comment: req.Comment,
	})
	if err != nil {
		s.logger.Printf("upsert rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, toRatingResponse(rating))
}
