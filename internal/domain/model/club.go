package model

import (
	"fmt"
	"time"

	"padelpass-backend/internal/domain"
)

// DefaultTimeZoneID is applied to clubs created without an explicit zone.
const DefaultTimeZoneID = "Asia/Riyadh"

// Common GCC zone ids used by seeding and validation hints.
const (
	TimeZoneSaudiArabia = "Asia/Riyadh"
	TimeZoneUAE         = "Asia/Dubai"
	TimeZoneKuwait      = "Asia/Kuwait"
	TimeZoneQatar       = "Asia/Qatar"
	TimeZoneBahrain     = "Asia/Bahrain"
	TimeZoneOman        = "Asia/Muscat"
)

// Club is a facility with an IANA time zone and a set of recurring weekly
// non-peak windows during which member check-in is permitted.
type Club struct {
	ID           string // UUID
	Name         string
	Address      string
	Latitude     *float64
	Longitude    *float64
	TimeZoneID   string
	NonPeakSlots []NonPeakSlot
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewClub(id, name, address, timeZoneID string, lat, lng *float64) (*Club, error) {
	if id == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		return nil, domain.ErrInvalidArgument
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return nil, domain.ErrInvalidArgument
	}
	if timeZoneID == "" {
		timeZoneID = DefaultTimeZoneID
	}
	if _, err := time.LoadLocation(timeZoneID); err != nil {
		return nil, domain.ErrInvalidTimeZone
	}
	return &Club{
		ID:         id,
		Name:       name,
		Address:    address,
		Latitude:   lat,
		Longitude:  lng,
		TimeZoneID: timeZoneID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// TimeOfDay is a wall-clock time as seconds since midnight. Second
// resolution keeps the inclusive slot boundary exact: 14:00:00 is inside
// a window ending at 14:00, 14:00:01 is not.
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, domain.ErrInvalidArgument
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil || n < 2 {
		if n2, err2 := fmt.Sscanf(s, "%d:%d", &h, &m); err2 != nil || n2 != 2 {
			return 0, domain.ErrInvalidArgument
		}
		sec = 0
	}
	return NewTimeOfDay(h, m, sec)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

// TimeOfDayFrom extracts the wall-clock seconds of an instant as observed
// in its own location.
func TimeOfDayFrom(instant time.Time) TimeOfDay {
	return TimeOfDay(instant.Hour()*3600 + instant.Minute()*60 + instant.Second())
}

// NonPeakSlot is a recurring weekly [Day, StartTime, EndTime] window,
// evaluated in the owning club's local time. Both boundaries are
// inclusive.
type NonPeakSlot struct {
	ID        string // UUID
	ClubID    string
	DayOfWeek time.Weekday // Sunday = 0
	StartTime TimeOfDay
	EndTime   TimeOfDay
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewNonPeakSlot(id, clubID string, day time.Weekday, start, end TimeOfDay) (*NonPeakSlot, error) {
	if id == "" || clubID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if day < time.Sunday || day > time.Saturday {
		return nil, domain.ErrInvalidArgument
	}
	if end <= start {
		return nil, domain.ErrInvalidArgument
	}
	return &NonPeakSlot{
		ID:        id,
		ClubID:    clubID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Contains reports whether a local instant falls inside the window.
func (s NonPeakSlot) Contains(local time.Time) bool {
	if local.Weekday() != s.DayOfWeek {
		return false
	}
	tod := TimeOfDayFrom(local)
	return tod >= s.StartTime && tod <= s.EndTime
}
