// File: internal/usecase/checkin_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/clubtime"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/infra/metrics"
)

// CreateCheckInRequest is the staff-supplied input. CheckInAt, when set,
// is a club-local wall-clock reading; when nil the current instant is
// used.
type CreateCheckInRequest struct {
	UserPhoneNumber     string
	ClubID              string
	CheckInAt           *time.Time
	CourtNumber         string
	StartPlayTime       *time.Time
	PlayDurationMinutes *int
	Notes               string
	IsManualEntry       bool
}

// CheckInResult carries the stored record plus club-local presentation
// fields.
type CheckInResult struct {
	CheckIn        *model.CheckIn
	LocalCheckInAt time.Time
	UserName       string
	UserPhone      string
	ClubName       string
}

// CheckInUseCase validates a member check-in against subscription status,
// the one-per-club-local-day rule and the club's non-peak windows, in
// that order, short-circuiting on the first failure.
type CheckInUseCase struct {
	checkins repository.CheckInRepository
	clubs    repository.ClubRepository
	subs     repository.SubscriptionRepository
	ident    identity.Provider
	access   *AccessPolicy
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewCheckInUseCase(
	checkins repository.CheckInRepository,
	clubs repository.ClubRepository,
	subs repository.SubscriptionRepository,
	ident identity.Provider,
	access *AccessPolicy,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *CheckInUseCase {
	return &CheckInUseCase{
		checkins: checkins,
		clubs:    clubs,
		subs:     subs,
		ident:    ident,
		access:   access,
		tm:       tm,
		log:      logger,
	}
}

// Create runs the eligibility pipeline and persists the check-in. The
// subscription, duplicate and window checks plus the insert run under a
// per-(user,club) advisory lock so two staff terminals cannot record the
// same member twice on one local day.
func (uc *CheckInUseCase) Create(ctx context.Context, caller model.CallerContext, req CreateCheckInRequest) (*CheckInResult, error) {
	res, err := uc.create(ctx, caller, req)
	metrics.IncCheckIn(outcomeLabel(err))
	return res, err
}

func (uc *CheckInUseCase) create(ctx context.Context, caller model.CallerContext, req CreateCheckInRequest) (*CheckInResult, error) {
	// 1. Resolve the member by phone.
	user, err := uc.ident.FindByPhone(ctx, req.UserPhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	// 2. Only end-customer accounts can be checked in.
	isCustomer, err := uc.ident.IsInRole(ctx, user.ID, model.RoleUser)
	if err != nil {
		return nil, err
	}
	if !isCustomer {
		return nil, domain.ErrInvalidUserType
	}

	// 3. Resolve the club (slots included).
	club, err := uc.clubs.FindByID(ctx, repository.NoTX, req.ClubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}

	// Staff may only check members into clubs within their scope.
	if err := uc.access.EnsureClubAccess(ctx, caller, club.ID); err != nil {
		return nil, err
	}

	// 4. Normalize the check-in instant to UTC. An explicit instant is a
	// club-local reading; the default is UTC-now passed through.
	now := time.Now().UTC()
	checkInUTC := now
	if req.CheckInAt != nil {
		checkInUTC, err = clubtime.ToUTC(*req.CheckInAt, club.TimeZoneID)
		if err != nil {
			return nil, err
		}
	}
	localCheckIn, err := clubtime.ToClubTime(checkInUTC, club.TimeZoneID)
	if err != nil {
		return nil, err
	}

	var record *model.CheckIn
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.tm.LockKey(ctx, tx, "checkin:"+user.ID+":"+club.ID); err != nil {
			return err
		}

		// 5. An eligible subscription: active, not paused, not expired.
		eligible, err := uc.subs.HasEligible(ctx, tx, user.ID, now)
		if err != nil {
			return err
		}
		if !eligible {
			return domain.ErrNoActiveSubscription
		}

		// 6. One check-in per club per club-local calendar day.
		prev, err := uc.checkins.FindLatestByUserAndClub(ctx, tx, user.ID, club.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if prev != nil {
			same, err := clubtime.SameClubDay(prev.CheckInAt, checkInUTC, club.TimeZoneID)
			if err != nil {
				return err
			}
			if same {
				return domain.ErrAlreadyCheckedIn
			}
		}

		// 7. Non-peak gating only applies when the club configured slots.
		if len(club.NonPeakSlots) > 0 && !clubtime.WithinNonPeak(localCheckIn, club.NonPeakSlots) {
			return domain.ErrOutsideNonPeakHours
		}

		// 8. Persist, UTC-normalized, attributed to the staff caller.
		record, err = model.NewCheckIn(uuid.NewString(), user.ID, club.ID, checkInUTC, caller.UserID)
		if err != nil {
			return err
		}
		record.CourtNumber = req.CourtNumber
		record.Notes = req.Notes
		record.PlayDurationMinutes = req.PlayDurationMinutes
		record.IsManualEntry = req.IsManualEntry
		if req.StartPlayTime != nil {
			t := req.StartPlayTime.UTC()
			record.StartPlayTime = &t
		}
		return uc.checkins.Save(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("club_id", club.ID).
		Time("checkin_at", record.CheckInAt).Msg("check-in recorded")

	// 9. Present in club-local time.
	return &CheckInResult{
		CheckIn:        record,
		LocalCheckInAt: localCheckIn,
		UserName:       user.FullName,
		UserPhone:      user.PhoneNumber,
		ClubName:       club.Name,
	}, nil
}

// ListByClub pages a club's check-ins for staff; club scope enforced.
func (uc *CheckInUseCase) ListByClub(ctx context.Context, caller model.CallerContext, clubID string, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	if err := uc.access.EnsureClubAccess(ctx, caller, clubID); err != nil {
		return nil, 0, err
	}
	return uc.checkins.ListByClub(ctx, repository.NoTX, clubID, page.Normalize(), dir)
}

// ListTodayByClub pages a club's check-ins for the current club-local
// calendar day. The day rolls over at the club's midnight, not UTC's.
func (uc *CheckInUseCase) ListTodayByClub(ctx context.Context, caller model.CallerContext, clubID string, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	if err := uc.access.EnsureClubAccess(ctx, caller, clubID); err != nil {
		return nil, 0, err
	}
	club, err := uc.clubs.FindByID(ctx, repository.NoTX, clubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrClubNotFound
		}
		return nil, 0, err
	}
	from, to, err := clubtime.DayBoundsUTC(time.Now().UTC(), club.TimeZoneID)
	if err != nil {
		return nil, 0, err
	}
	return uc.checkins.ListByClubBetween(ctx, repository.NoTX, clubID, from, to, page.Normalize(), dir)
}

// ListByUser pages a member's own check-in history; admins may read any
// member's.
func (uc *CheckInUseCase) ListByUser(ctx context.Context, caller model.CallerContext, userID string, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	if err := ensureOwnerOrAdmin(caller, userID); err != nil {
		return nil, 0, err
	}
	return uc.checkins.ListByUser(ctx, repository.NoTX, userID, page.Normalize(), dir)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrInvalidUserType):
		return "invalid_user_type"
	case errors.Is(err, domain.ErrClubNotFound):
		return "club_not_found"
	case errors.Is(err, domain.ErrNoAccessToClub):
		return "no_club_access"
	case errors.Is(err, domain.ErrNoActiveSubscription):
		return "no_active_subscription"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, domain.ErrOutsideNonPeakHours):
		return "outside_non_peak"
	default:
		return "error"
	}
}
