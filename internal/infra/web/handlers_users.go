package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"padelpass-backend/internal/usecase"
)

type userSearchItem struct {
	User               userView   `json:"user"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEnd    *time.Time `json:"subscription_end,omitempty"`
}

func (s *Server) handleUserSearch(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	page := pageFromQuery(r)
	query := r.URL.Query().Get("q")

	results, total, err := s.userUC.Search(r.Context(), caller, query, page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items := make([]userSearchItem, 0, len(results))
	for _, res := range results {
		items = append(items, userSearchItem{
			User:               toUserView(res.User),
			SubscriptionStatus: res.SubscriptionStatus,
			SubscriptionEnd:    res.SubscriptionEnd,
		})
	}
	writeJSON(w, http.StatusOK, listResponse{Data: items, Total: total, Page: page.Number, Size: page.Size})
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	user, err := s.userUC.GetByID(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req struct {
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		FullName    string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.userUC.UpdateProfile(r.Context(), caller, chi.URLParam(r, "id"), usecase.UpdateProfileRequest{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.userUC.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
