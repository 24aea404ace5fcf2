package httpserver

import (
	"errors"
	"net/http"

	"storeratings/internal/repository"
)

type ratingWithAuthorResponse struct {
	ID      string       `json:"id"`
	Value   int          `json:"value"`
	Comment *string      `json:"comment,omitempty"`
	User    userResponse `json:"user"`
}

type ownerDashboardResponse struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Email         string                     `json:"email"`
	Address       string                     `json:"address"`
	AverageRating float64                    `json:"averageRating"`
	Ratings       []ratingWithAuthorResponse `json:"ratings"`
}

func (s *Server) handleMyStore(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	store, err := s.repo.Stores.GetByOwner(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Store not found")
			return
		}
		s.logger.Printf("owner store lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load store")
		return
	}

	agg, err := s.repo.Ratings.Aggregate(r.Context(), store.ID)
	if err != nil {
		s.logger.Printf("aggregate rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load store")
		return
	}

	ratings, err := s.repo.Ratings.ListForStore(r.Context(), store.ID)
	if err != nil {
		s.logger.Printf("list store ratings error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load store")
		return
	}

	items := make([]ratingWithAuthorResponse, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, ratingWithAuthorResponse{
			ID:      rating.ID,
			Value:   rating.Value,
			Comment: rating.Comment,
			User: userResponse{
				ID:    rating.UserID,
				Name:  rating.AuthorName,
				Email: rating.AuthorEmail,
			},
		})
	}

	s.respondJSON(w, http.StatusOK, ownerDashboardResponse{
		ID:            store.ID,
		Name:          store.Name,
		Email:         store.Email,
		Address:       store.Address,
		AverageRating: agg.Average,
		Ratings:       items,
	})
}
