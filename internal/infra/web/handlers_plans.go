package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/usecase"
)

type planRequest struct {
	Name             string `json:"name"`
	DurationInMonths int    `json:"duration_months"`
	PriceHalalas     int64  `json:"price_halalas"`
}

func (req planRequest) toUseCase() usecase.PlanRequest {
	return usecase.PlanRequest{
		Name:             req.Name,
		DurationInMonths: req.DurationInMonths,
		PriceHalalas:     req.PriceHalalas,
	}
}

func (s *Server) handlePlanCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := s.planUC.Create(r.Context(), caller, req.toUseCase())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanView(plan))
}

func (s *Server) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := s.planUC.Update(r.Context(), caller, chi.URLParam(r, "id"), req.toUseCase())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanView(plan))
}

func (s *Server) handlePlanDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.planUC.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlanGet(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planUC.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanView(plan))
}

func (s *Server) handlePlanList(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	sort := repository.PlanSortName
	switch r.URL.Query().Get("sort") {
	case string(repository.PlanSortPrice):
		sort = repository.PlanSortPrice
	case string(repository.PlanSortDuration):
		sort = repository.PlanSortDuration
	}

	plans, total, err := s.planUC.List(r.Context(), page, sort, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]planView, 0, len(plans))
	for _, p := range plans {
		views = append(views, toPlanView(p))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: views, Total: total, Page: page.Number, Size: page.Size})
}
