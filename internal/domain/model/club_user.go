package model

import (
	"time"

	"padelpass-backend/internal/domain"
)

// ClubUser associates a staff account with one club. Deactivating the
// association removes the club from the staff member's visibility scope
// without deleting the account.
type ClubUser struct {
	ID        string // UUID
	UserID    string
	ClubID    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewClubUser(id, userID, clubID string) (*ClubUser, error) {
	if id == "" || userID == "" || clubID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &ClubUser{
		ID:        id,
		UserID:    userID,
		ClubID:    clubID,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil
}
