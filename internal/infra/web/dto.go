package web

import (
	"net/http"
	"strconv"
	"time"

	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/usecase"
)

// View structs keep wire shapes stable and keep PasswordHash out of
// responses.

type userView struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	PhoneNumber           string     `json:"phone_number"`
	FullName              string     `json:"full_name"`
	Roles                 []string   `json:"roles"`
	CurrentSubscriptionID *string    `json:"current_subscription_id,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:                    u.ID,
		Email:                 u.Email,
		PhoneNumber:           u.PhoneNumber,
		FullName:              u.FullName,
		Roles:                 u.Roles,
		CurrentSubscriptionID: u.CurrentSubscriptionID,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

type tokenPairView struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         userView  `json:"user"`
}

func toTokenPairView(p *usecase.TokenPair) tokenPairView {
	return tokenPairView{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    p.ExpiresAt,
		User:         toUserView(p.User),
	}
}

type subscriptionView struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	PlanID        string     `json:"plan_id"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	State         string     `json:"state"`
	PauseDate     *time.Time `json:"pause_date,omitempty"`
	RemainingDays *int       `json:"remaining_days,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// toSubscriptionView derives the presented state; expiry is never a
// stored flag.
func toSubscriptionView(s *model.Subscription, now time.Time) subscriptionView {
	state := usecase.SubStatusActive
	switch {
	case !s.IsActive:
		state = usecase.SubStatusStopped
	case s.IsPaused:
		state = usecase.SubStatusPaused
	case !s.EndDate.After(now):
		state = usecase.SubStatusExpired
	}
	return subscriptionView{
		ID:            s.ID,
		UserID:        s.UserID,
		PlanID:        s.PlanID,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		State:         state,
		PauseDate:     s.PauseDate,
		RemainingDays: s.RemainingDays,
		CreatedAt:     s.CreatedAt,
	}
}

func toSubscriptionViews(subs []*model.Subscription, now time.Time) []subscriptionView {
	out := make([]subscriptionView, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubscriptionView(s, now))
	}
	return out
}

type planView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	DurationInMonths int       `json:"duration_months"`
	PriceHalalas     int64     `json:"price_halalas"`
	CreatedAt        time.Time `json:"created_at"`
}

func toPlanView(p *model.SubscriptionPlan) planView {
	return planView{
		ID:               p.ID,
		Name:             p.Name,
		DurationInMonths: p.DurationInMonths,
		PriceHalalas:     p.PriceHalalas,
		CreatedAt:        p.CreatedAt,
	}
}

type slotView struct {
	ID        string `json:"id"`
	ClubID    string `json:"club_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toSlotView(s model.NonPeakSlot) slotView {
	return slotView{
		ID:        s.ID,
		ClubID:    s.ClubID,
		DayOfWeek: s.DayOfWeek.String(),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
	}
}

type clubView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	TimeZoneID   string     `json:"time_zone_id"`
	NonPeakSlots []slotView `json:"non_peak_slots"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toClubView(c *model.Club) clubView {
	slots := make([]slotView, 0, len(c.NonPeakSlots))
	for _, s := range c.NonPeakSlots {
		slots = append(slots, toSlotView(s))
	}
	return clubView{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		TimeZoneID:   c.TimeZoneID,
		NonPeakSlots: slots,
		CreatedAt:    c.CreatedAt,
	}
}

type checkInView struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	ClubID              string     `json:"club_id"`
	CheckInAt           time.Time  `json:"checkin_at"`
	CourtNumber         string     `json:"court_number,omitempty"`
	StartPlayTime       *time.Time `json:"start_play_time,omitempty"`
	PlayDurationMinutes *int       `json:"play_duration_minutes,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CheckedInBy         string     `json:"checked_in_by"`
	IsManualEntry       bool       `json:"is_manual_entry"`
}

func toCheckInView(c *model.CheckIn) checkInView {
	return checkInView{
		ID:                  c.ID,
		UserID:              c.UserID,
		ClubID:              c.ClubID,
		CheckInAt:           c.CheckInAt,
		CourtNumber:         c.CourtNumber,
		StartPlayTime:       c.StartPlayTime,
		PlayDurationMinutes: c.PlayDurationMinutes,
		Notes:               c.Notes,
		CheckedInBy:         c.CheckedInBy,
		IsManualEntry:       c.IsManualEntry,
	}
}

type clubUserView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClubID    string    `json:"club_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toClubUserView(cu *model.ClubUser) clubUserView {
	return clubUserView{
		ID:        cu.ID,
		UserID:    cu.UserID,
		ClubID:    cu.ClubID,
		IsActive:  cu.IsActive,
		CreatedAt: cu.CreatedAt,
	}
}

type listResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// ===== Query parsing =====

func pageFromQuery(r *http.Request) repository.Page {
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return repository.Page{Number: number, Size: size}.Normalize()
}

func dirFromQuery(r *http.Request) repository.SortDirection {
	if r.URL.Query().Get("dir") == string(repository.SortAsc) {
		return repository.SortAsc
	}
	return repository.SortDesc
}
