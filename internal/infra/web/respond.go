package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"padelpass-backend/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// errorStatus maps a failure kind to an HTTP status and a message key.
// The key, not the Go error text, is what gets localized.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, domain.ErrClubNotFound):
		return http.StatusNotFound, "club_not_found"
	case errors.Is(err, domain.ErrPlanNotFound):
		return http.StatusNotFound, "plan_not_found"
	case errors.Is(err, domain.ErrSubscriptionNotFound):
		return http.StatusNotFound, "subscription_not_found"
	case errors.Is(err, domain.ErrClubUserNotFound):
		return http.StatusNotFound, "club_user_not_found"
	case errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound, "slot_not_found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "invalid_refresh_token"
	case errors.Is(err, domain.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "refresh_token_expired"

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, domain.ErrNoAccessToClub):
		return http.StatusForbidden, "no_club_access"

	case errors.Is(err, domain.ErrDuplicateActiveSubscription):
		return http.StatusConflict, "duplicate_active_subscription"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return http.StatusConflict, "already_checked_in"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, domain.ErrPhoneTaken):
		return http.StatusConflict, "phone_taken"

	case errors.Is(err, domain.ErrCannotExtendInactive):
		return http.StatusUnprocessableEntity, "cannot_extend_inactive"
	case errors.Is(err, domain.ErrCannotPauseInactive):
		return http.StatusUnprocessableEntity, "cannot_pause_inactive"
	case errors.Is(err, domain.ErrCannotResumeInactive):
		return http.StatusUnprocessableEntity, "cannot_resume_inactive"
	case errors.Is(err, domain.ErrAlreadyPaused):
		return http.StatusUnprocessableEntity, "already_paused"
	case errors.Is(err, domain.ErrNotPaused):
		return http.StatusUnprocessableEntity, "not_paused"
	case errors.Is(err, domain.ErrAlreadyExpired):
		return http.StatusUnprocessableEntity, "already_expired"
	case errors.Is(err, domain.ErrNoRemainingDays):
		return http.StatusUnprocessableEntity, "no_remaining_days"
	case errors.Is(err, domain.ErrNoActiveSubscription):
		return http.StatusUnprocessableEntity, "no_active_subscription"
	case errors.Is(err, domain.ErrOutsideNonPeakHours):
		return http.StatusUnprocessableEntity, "outside_non_peak"
	case errors.Is(err, domain.ErrInvalidUserType):
		return http.StatusUnprocessableEntity, "invalid_user_type"

	case errors.Is(err, domain.ErrInvalidTimeZone):
		return http.StatusBadRequest, "invalid_time_zone"
	case errors.Is(err, domain.ErrPasswordConfirmation):
		return http.StatusBadRequest, "password_confirmation"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, key := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: s.translate(r, key), Code: key})
}

// translate resolves the message for key in the catalog the request asked
// for via Accept-Language.
func (s *Server) translate(r *http.Request, key string, args ...interface{}) string {
	return s.i18n.Pick(r.Header.Get("Accept-Language")).T(key, args...)
}
