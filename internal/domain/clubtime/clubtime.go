// Package clubtime converts between UTC instants and a club's local civil
// time and evaluates non-peak windows.
//
// DST rule: local wall-clock times are materialized with time.Date in the
// club's Location, so an ambiguous local time (clock set back) resolves to
// the earlier offset and a skipped local time (clock set forward) rolls
// forward by the width of the gap. Deterministic, and pinned by tests.
package clubtime

import (
	"time"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
)

// Location resolves an IANA zone id.
func Location(timeZoneID string) (*time.Location, error) {
	loc, err := time.LoadLocation(timeZoneID)
	if err != nil {
		return nil, domain.ErrInvalidTimeZone
	}
	return loc, nil
}

// ToClubTime reinterprets a UTC instant in the club's zone. The instant is
// unchanged; only the wall-clock reading moves.
func ToClubTime(utc time.Time, timeZoneID string) (time.Time, error) {
	loc, err := Location(timeZoneID)
	if err != nil {
		return time.Time{}, err
	}
	return utc.In(loc), nil
}

// ToUTC takes a naive local wall-clock reading (the instant's year..second
// fields; any offset it carries is ignored) and returns the UTC instant at
// which a clock in the club's zone shows that reading.
func ToUTC(local time.Time, timeZoneID string) (time.Time, error) {
	loc, err := Location(timeZoneID)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := local.Date()
	h, min, sec := local.Clock()
	return time.Date(y, m, d, h, min, sec, local.Nanosecond(), loc).UTC(), nil
}

// Now returns the current wall-clock time in the club's zone.
func Now(timeZoneID string) (time.Time, error) {
	return ToClubTime(time.Now().UTC(), timeZoneID)
}

// WithinNonPeak reports whether a club-local instant falls inside at least
// one slot. Both slot boundaries are inclusive.
func WithinNonPeak(local time.Time, slots []model.NonPeakSlot) bool {
	for _, s := range slots {
		if s.Contains(local) {
			return true
		}
	}
	return false
}

// SameClubDay reports whether two UTC instants fall on the same calendar
// date as observed in the club's zone.
func SameClubDay(a, b time.Time, timeZoneID string) (bool, error) {
	loc, err := Location(timeZoneID)
	if err != nil {
		return false, err
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd, nil
}

// DayBoundsUTC returns the UTC instants [from, to) bounding the
// club-local calendar day that contains at.
func DayBoundsUTC(at time.Time, timeZoneID string) (time.Time, time.Time, error) {
	loc, err := Location(timeZoneID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := at.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from.UTC(), from.AddDate(0, 0, 1).UTC(), nil
}

// Format renders an instant in club-local time. Presentation helper only.
func Format(t time.Time, timeZoneID, layout string) (string, error) {
	local, err := ToClubTime(t, timeZoneID)
	if err != nil {
		return "", err
	}
	if layout == "" {
		layout = "2006-01-02 15:04"
	}
	return local.Format(layout), nil
}
