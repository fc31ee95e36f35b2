package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/usecase"
)

type clubRequest struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	TimeZoneID string   `json:"time_zone_id"`
}

func (req clubRequest) toUseCase() usecase.CreateClubRequest {
	return usecase.CreateClubRequest{
		Name:       req.Name,
		Address:    req.Address,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		TimeZoneID: req.TimeZoneID,
	}
}

func (s *Server) handleClubCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	club, err := s.clubUC.Create(r.Context(), caller, req.toUseCase())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClubView(club))
}

func (s *Server) handleClubUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	club, err := s.clubUC.Update(r.Context(), caller, chi.URLParam(r, "id"), req.toUseCase())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubView(club))
}

func (s *Server) handleClubDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.clubUC.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClubGet(w http.ResponseWriter, r *http.Request) {
	club, err := s.clubUC.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubView(club))
}

func (s *Server) handleClubList(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	sort := repository.ClubSortName
	if r.URL.Query().Get("sort") == string(repository.ClubSortCreatedAt) {
		sort = repository.ClubSortCreatedAt
	}

	clubs, total, err := s.clubUC.List(r.Context(), page, sort, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]clubView, 0, len(clubs))
	for _, c := range clubs {
		views = append(views, toClubView(c))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: views, Total: total, Page: page.Number, Size: page.Size})
}

// ===== Non-peak slots =====

type slotRequest struct {
	DayOfWeek int    `json:"day_of_week"` // Sunday = 0
	StartTime string `json:"start_time"`  // "HH:MM" or "HH:MM:SS"
	EndTime   string `json:"end_time"`
}

func (req slotRequest) toUseCase() usecase.SlotRequest {
	return usecase.SlotRequest{
		DayOfWeek: time.Weekday(req.DayOfWeek),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
}

func (s *Server) handleSlotCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := s.clubUC.AddSlot(r.Context(), caller, chi.URLParam(r, "id"), req.toUseCase())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSlotView(*slot))
}

func (s *Server) handleSlotUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := s.clubUC.UpdateSlot(r.Context(), caller, chi.URLParam(r, "id"), req.toUseCase())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotView(*slot))
}

func (s *Server) handleSlotDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	if err := s.clubUC.DeleteSlot(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSlotList(w http.ResponseWriter, r *http.Request) {
	slots, err := s.clubUC.ListSlots(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	views := make([]slotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, toSlotView(slot))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": views})
}
