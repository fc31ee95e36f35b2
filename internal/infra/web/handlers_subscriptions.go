package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

func (s *Server) handleSubscriptionCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := s.subUC.Create(r.Context(), caller, req.PlanID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubscriptionView(sub, time.Now().UTC()))
}

func (s *Server) handleSubscriptionGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	sub, err := s.subUC.GetByID(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionView(sub, time.Now().UTC()))
}

func (s *Server) handleSubscriptionCurrent(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	sub, err := s.subUC.GetCurrent(r.Context(), caller)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionView(sub, time.Now().UTC()))
}

func (s *Server) handleSubscriptionList(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	page := pageFromQuery(r)

	sort := repository.SubscriptionSortCreatedAt
	switch r.URL.Query().Get("sort") {
	case string(repository.SubscriptionSortStartDate):
		sort = repository.SubscriptionSortStartDate
	case string(repository.SubscriptionSortEndDate):
		sort = repository.SubscriptionSortEndDate
	}

	subs, total, err := s.subUC.List(r.Context(), caller, page, sort, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data:  toSubscriptionViews(subs, time.Now().UTC()),
		Total: total,
		Page:  page.Number,
		Size:  page.Size,
	})
}

func (s *Server) handleSubscriptionExtend(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req struct {
		AdditionalMonths int `json:"additional_months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := s.subUC.Extend(r.Context(), caller, chi.URLParam(r, "id"), req.AdditionalMonths)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionView(sub, time.Now().UTC()))
}

func (s *Server) handleSubscriptionPause(w http.ResponseWriter, r *http.Request) {
	s.subscriptionTransition(w, r, s.subUC.Pause)
}

func (s *Server) handleSubscriptionResume(w http.ResponseWriter, r *http.Request) {
	s.subscriptionTransition(w, r, s.subUC.Resume)
}

func (s *Server) subscriptionTransition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller model.CallerContext, id string) (*model.Subscription, error),
) {
	caller, _ := CallerFromContext(r.Context())

	sub, err := op(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionView(sub, time.Now().UTC()))
}

func (s *Server) handleSubscriptionCancel(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.subUC.Cancel(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubscriptionDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.subUC.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
