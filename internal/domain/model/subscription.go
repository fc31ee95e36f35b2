package model

import (
	"time"

	"padelpass-backend/internal/domain"
)

// Subscription is a user's membership instance. States are Active-Running
// (IsActive, !IsPaused), Active-Paused (IsActive, IsPaused) and Inactive
// (!IsActive, reached only via Cancel). Expiry is a derived condition:
// an active, non-paused subscription whose EndDate has passed keeps
// IsActive=true and is simply ineligible wherever eligibility is checked.
//
// Invariant: IsPaused implies PauseDate and RemainingDays are set;
// !IsPaused implies both are nil. While paused EndDate is a stale marker;
// Resume recomputes it from RemainingDays.
type Subscription struct {
	ID            string // UUID
	UserID        string
	PlanID        string
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	IsPaused      bool
	PauseDate     *time.Time
	RemainingDays *int
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// NewSubscription starts a subscription at now with EndDate one plan
// duration ahead (calendar months, month-end clamped).
func NewSubscription(id, userID string, plan *SubscriptionPlan, now time.Time) (*Subscription, error) {
	if id == "" || userID == "" || plan == nil {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:        id,
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   AddMonths(now, plan.DurationInMonths),
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

// EligibleAt reports whether the subscription counts toward check-in
// eligibility at the given instant.
func (s *Subscription) EligibleAt(now time.Time) bool {
	return s.IsActive && !s.IsPaused && s.EndDate.After(now)
}

// Pause freezes the remaining days. EndDate is deliberately left
// untouched; it becomes meaningful again only after Resume.
func (s *Subscription) Pause(now time.Time) error {
	if !s.IsActive {
		return domain.ErrCannotPauseInactive
	}
	if s.IsPaused {
		return domain.ErrAlreadyPaused
	}
	if now.After(s.EndDate) {
		return domain.ErrAlreadyExpired
	}
	remaining := wholeDaysBetween(now, s.EndDate)
	s.IsPaused = true
	s.PauseDate = &now
	s.RemainingDays = &remaining
	return nil
}

// Resume restarts the clock: EndDate = now + RemainingDays.
func (s *Subscription) Resume(now time.Time) error {
	if !s.IsActive {
		return domain.ErrCannotResumeInactive
	}
	if !s.IsPaused {
		return domain.ErrNotPaused
	}
	remaining := 0
	if s.RemainingDays != nil {
		remaining = *s.RemainingDays
	}
	if remaining <= 0 {
		return domain.ErrNoRemainingDays
	}
	s.EndDate = now.AddDate(0, 0, remaining)
	s.IsPaused = false
	s.PauseDate = nil
	s.RemainingDays = nil
	return nil
}

// Extend pushes the end forward by whole calendar months. On a paused
// subscription the extension is folded into RemainingDays against a
// virtual end of now+RemainingDays; EndDate stays stale until Resume.
func (s *Subscription) Extend(additionalMonths int, now time.Time) error {
	if additionalMonths < 1 || additionalMonths > 36 {
		return domain.ErrInvalidArgument
	}
	if !s.IsActive {
		return domain.ErrCannotExtendInactive
	}
	if s.IsPaused {
		remaining := 0
		if s.RemainingDays != nil {
			remaining = *s.RemainingDays
		}
		virtualEnd := AddMonths(now.AddDate(0, 0, remaining), additionalMonths)
		newRemaining := wholeDaysBetween(now, virtualEnd)
		s.RemainingDays = &newRemaining
		return nil
	}
	s.EndDate = AddMonths(s.EndDate, additionalMonths)
	return nil
}

// Cancel deactivates the subscription. EndDate and pause bookkeeping are
// left as-is; the row stays for history.
func (s *Subscription) Cancel() {
	s.IsActive = false
}

// AddMonths adds calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month = Feb 29 in a leap year). This matches the
// original backend's month arithmetic; time.AddDate would normalize the
// overflow into March instead.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	ny := y + total/12
	nm := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero.
		ny = y + (total-11)/12
		nm = time.Month((total%12+12)%12 + 1)
	}
	if last := daysInMonth(ny, nm); d > last {
		d = last
	}
	return time.Date(ny, nm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// wholeDaysBetween truncates the fractional day, matching the original's
// integer cast of TotalDays.
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
