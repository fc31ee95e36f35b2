package repository

// Page is a 1-based page request. Size is clamped by the repositories.
type Page struct {
	Number int
	Size   int
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Closed sets of sortable fields per resource. Repositories map these to
// ORDER BY clauses explicitly; free-text column names are never accepted.
type SubscriptionSort string

const (
	SubscriptionSortStartDate SubscriptionSort = "start_date"
	SubscriptionSortEndDate   SubscriptionSort = "end_date"
	SubscriptionSortCreatedAt SubscriptionSort = "created_at"
)

type ClubSort string

const (
	ClubSortName      ClubSort = "name"
	ClubSortCreatedAt ClubSort = "created_at"
)

type PlanSort string

const (
	PlanSortName     PlanSort = "name"
	PlanSortPrice    PlanSort = "price"
	PlanSortDuration PlanSort = "duration"
)

type CheckInSort string

const (
	CheckInSortTime CheckInSort = "checkin_at"
)

type ClubUserSort string

const (
	ClubUserSortCreatedAt ClubUserSort = "created_at"
)
