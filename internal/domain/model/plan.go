package model

import (
	"time"

	"padelpass-backend/internal/domain"
)

// SubscriptionPlan is priced in halalas (minor currency units) to avoid
// float arithmetic on money.
type SubscriptionPlan struct {
	ID               string // UUID
	Name             string
	DurationInMonths int // 1..36
	PriceHalalas     int64
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func NewSubscriptionPlan(id, name string, durationInMonths int, priceHalalas int64) (*SubscriptionPlan, error) {
	if id == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if durationInMonths < 1 || durationInMonths > 36 {
		return nil, domain.ErrInvalidArgument
	}
	if priceHalalas <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionPlan{
		ID:               id,
		Name:             name,
		DurationInMonths: durationInMonths,
		PriceHalalas:     priceHalalas,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
