package model

import (
	"time"

	"padelpass-backend/internal/domain"
)

// CheckIn records a member entering a club. CheckInAt is stored in UTC;
// presentation converts back to club-local time. Rows are append-only.
type CheckIn struct {
	ID                  string // UUID
	UserID              string
	ClubID              string
	CheckInAt           time.Time // UTC
	CourtNumber         string
	StartPlayTime       *time.Time // UTC
	PlayDurationMinutes *int
	Notes               string
	CheckedInBy         string // staff user id
	IsManualEntry       bool
	CreatedAt           time.Time
}

func NewCheckIn(id, userID, clubID string, at time.Time, checkedInBy string) (*CheckIn, error) {
	if id == "" || userID == "" || clubID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &CheckIn{
		ID:          id,
		UserID:      userID,
		ClubID:      clubID,
		CheckInAt:   at.UTC(),
		CheckedInBy: checkedInBy,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
