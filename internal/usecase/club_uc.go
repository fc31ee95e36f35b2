// File: internal/usecase/club_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

type CreateClubRequest struct {
	Name       string
	Address    string
	Latitude   *float64
	Longitude  *float64
	TimeZoneID string
}

type SlotRequest struct {
	DayOfWeek time.Weekday
	StartTime string // "HH:MM" or "HH:MM:SS"
	EndTime   string
}

// ClubUseCase manages clubs and their non-peak slots. All mutations are
// admin-only; reads are open to any authenticated caller (members need
// the slot windows to plan visits).
type ClubUseCase struct {
	clubs repository.ClubRepository
	log   *zerolog.Logger
}

func NewClubUseCase(clubs repository.ClubRepository, logger *zerolog.Logger) *ClubUseCase {
	return &ClubUseCase{clubs: clubs, log: logger}
}

func (uc *ClubUseCase) Create(ctx context.Context, caller model.CallerContext, req CreateClubRequest) (*model.Club, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	club, err := model.NewClub(uuid.NewString(), req.Name, req.Address, req.TimeZoneID, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}
	if err := uc.clubs.Save(ctx, repository.NoTX, club); err != nil {
		return nil, err
	}
	uc.log.Info().Str("club_id", club.ID).Str("tz", club.TimeZoneID).Msg("club created")
	return club, nil
}

func (uc *ClubUseCase) Update(ctx context.Context, caller model.CallerContext, id string, req CreateClubRequest) (*model.Club, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	club, err := uc.getClub(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := model.NewClub(club.ID, req.Name, req.Address, req.TimeZoneID, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = club.CreatedAt
	now := time.Now().UTC()
	updated.UpdatedAt = &now
	updated.NonPeakSlots = club.NonPeakSlots
	if err := uc.clubs.Update(ctx, repository.NoTX, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *ClubUseCase) Delete(ctx context.Context, caller model.CallerContext, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if _, err := uc.getClub(ctx, id); err != nil {
		return err
	}
	return uc.clubs.Delete(ctx, repository.NoTX, id)
}

func (uc *ClubUseCase) GetByID(ctx context.Context, id string) (*model.Club, error) {
	return uc.getClub(ctx, id)
}

func (uc *ClubUseCase) List(ctx context.Context, page repository.Page, sort repository.ClubSort, dir repository.SortDirection) ([]*model.Club, int, error) {
	return uc.clubs.List(ctx, repository.NoTX, page.Normalize(), sort, dir)
}

// AddSlot attaches a weekly non-peak window to a club.
func (uc *ClubUseCase) AddSlot(ctx context.Context, caller model.CallerContext, clubID string, req SlotRequest) (*model.NonPeakSlot, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.getClub(ctx, clubID); err != nil {
		return nil, err
	}
	start, end, err := parseSlotTimes(req)
	if err != nil {
		return nil, err
	}
	slot, err := model.NewNonPeakSlot(uuid.NewString(), clubID, req.DayOfWeek, start, end)
	if err != nil {
		return nil, err
	}
	if err := uc.clubs.SaveSlot(ctx, repository.NoTX, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (uc *ClubUseCase) UpdateSlot(ctx context.Context, caller model.CallerContext, slotID string, req SlotRequest) (*model.NonPeakSlot, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	slot, err := uc.clubs.FindSlotByID(ctx, repository.NoTX, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	start, end, err := parseSlotTimes(req)
	if err != nil {
		return nil, err
	}
	updated, err := model.NewNonPeakSlot(slot.ID, slot.ClubID, req.DayOfWeek, start, end)
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = slot.CreatedAt
	now := time.Now().UTC()
	updated.UpdatedAt = &now
	if err := uc.clubs.UpdateSlot(ctx, repository.NoTX, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *ClubUseCase) DeleteSlot(ctx context.Context, caller model.CallerContext, slotID string) error {
	if !caller.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if _, err := uc.clubs.FindSlotByID(ctx, repository.NoTX, slotID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrSlotNotFound
		}
		return err
	}
	return uc.clubs.DeleteSlot(ctx, repository.NoTX, slotID)
}

func (uc *ClubUseCase) ListSlots(ctx context.Context, clubID string) ([]model.NonPeakSlot, error) {
	if _, err := uc.getClub(ctx, clubID); err != nil {
		return nil, err
	}
	return uc.clubs.ListSlotsByClub(ctx, repository.NoTX, clubID)
}

func (uc *ClubUseCase) getClub(ctx context.Context, id string) (*model.Club, error) {
	club, err := uc.clubs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

func parseSlotTimes(req SlotRequest) (model.TimeOfDay, model.TimeOfDay, error) {
	start, err := model.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := model.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
