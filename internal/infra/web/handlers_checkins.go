package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"padelpass-backend/internal/usecase"
)

type checkInRequest struct {
	UserPhoneNumber     string     `json:"user_phone_number"`
	ClubID              string     `json:"club_id"`
	CheckInAt           *time.Time `json:"checkin_at,omitempty"` // club-local wall clock, manual entry only
	CourtNumber         string     `json:"court_number,omitempty"`
	StartPlayTime       *time.Time `json:"start_play_time,omitempty"`
	PlayDurationMinutes *int       `json:"play_duration_minutes,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	IsManualEntry       bool       `json:"is_manual_entry,omitempty"`
}

type checkInResultView struct {
	CheckIn        checkInView `json:"check_in"`
	LocalCheckInAt time.Time   `json:"local_checkin_at"`
	UserName       string      `json:"user_name"`
	UserPhone      string      `json:"user_phone"`
	ClubName       string      `json:"club_name"`
}

func (s *Server) handleCheckInCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.checkinUC.Create(r.Context(), caller, usecase.CreateCheckInRequest{
		UserPhoneNumber:     req.UserPhoneNumber,
		ClubID:              req.ClubID,
		CheckInAt:           req.CheckInAt,
		CourtNumber:         req.CourtNumber,
		StartPlayTime:       req.StartPlayTime,
		PlayDurationMinutes: req.PlayDurationMinutes,
		Notes:               req.Notes,
		IsManualEntry:       req.IsManualEntry,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkInResultView{
		CheckIn:        toCheckInView(result.CheckIn),
		LocalCheckInAt: result.LocalCheckInAt,
		UserName:       result.UserName,
		UserPhone:      result.UserPhone,
		ClubName:       result.ClubName,
	})
}

func (s *Server) handleCheckInsByClub(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	page := pageFromQuery(r)

	checkIns, total, err := s.checkinUC.ListByClub(r.Context(), caller, chi.URLParam(r, "id"), page, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]checkInView, 0, len(checkIns))
	for _, c := range checkIns {
		views = append(views, toCheckInView(c))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: views, Total: total, Page: page.Number, Size: page.Size})
}

func (s *Server) handleCheckInsTodayByClub(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	page := pageFromQuery(r)

	checkIns, total, err := s.checkinUC.ListTodayByClub(r.Context(), caller, chi.URLParam(r, "id"), page, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]checkInView, 0, len(checkIns))
	for _, c := range checkIns {
		views = append(views, toCheckInView(c))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: views, Total: total, Page: page.Number, Size: page.Size})
}

func (s *Server) handleCheckInsByUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	page := pageFromQuery(r)

	checkIns, total, err := s.checkinUC.ListByUser(r.Context(), caller, chi.URLParam(r, "id"), page, dirFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views := make([]checkInView, 0, len(checkIns))
	for _, c := range checkIns {
		views = append(views, toCheckInView(c))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: views, Total: total, Page: page.Number, Size: page.Size})
}
