package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"padelpass-backend/internal/usecase"
)

type clubUserCreateRequest struct {
	ClubID string `json:"club_id"`
	UserID string `json:"user_id,omitempty"`
	// Register creates a fresh staff account in the same transaction.
	Register *registerRequest `json:"register,omitempty"`
}

func (s *Server) handleClubUserCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req clubUserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ucReq := usecase.CreateClubUserRequest{ClubID: req.ClubID, UserID: req.UserID}
	if req.Register != nil {
		reg := req.Register.toUseCase()
		ucReq.Register = &reg
	}

	cu, err := s.clubUsrUC.Create(r.Context(), caller, ucReq)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClubUserView(cu))
}

func (s *Server) handleClubUserGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	cu, err := s.clubUsrUC.GetByID(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubUserView(cu))
}

func (s *Server) handleClubUserSetActive(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cu, err := s.clubUsrUC.SetActive(r.Context(), caller, chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubUserView(cu))
}

func (s *Server) handleClubUserDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.clubUsrUC.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClubUserList(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	page := pageFromQuery(r)

	clubUsers, total, err := s.clubUsrUC.List(r.Context(), caller, r.URL.Query().Get("club_id"), page, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]clubUserView, 0, len(clubUsers))
	for _, cu := range clubUsers {
		views = append(views, toClubUserView(cu))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: views, Total: total, Page: page.Number, Size: page.Size})
}
