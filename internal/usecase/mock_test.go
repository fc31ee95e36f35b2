//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func page(n, size int) repository.Page { return repository.Page{Number: n, Size: size} }

func paginate[T any](items []*T, p repository.Page) []*T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []*T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
	byPhone map[string]*model.User

	SaveFunc        func(ctx context.Context, tx repository.Tx, u *model.User) error
	UpdateFunc      func(ctx context.Context, tx repository.Tx, u *model.User) error
	DeleteFunc      func(ctx context.Context, tx repository.Tx, id string) error
	FindByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByEmailFunc func(ctx context.Context, tx repository.Tx, email string) (*model.User, error)
	FindByPhoneFunc func(ctx context.Context, tx repository.Tx, phone string) (*model.User, error)
	SearchFunc      func(ctx context.Context, tx repository.Tx, query, role string, page repository.Page) ([]*model.User, int, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		byID:    map[string]*model.User{},
		byEmail: map[string]*model.User{},
		byPhone: map[string]*model.User{},
	}
}

func (r *MockUserRepo) put(u *model.User) {
	cp := *u
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = &cp
	r.byPhone[cp.PhoneNumber] = &cp
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(u)
	return nil
}

func (r *MockUserRepo) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.UpdateFunc != nil {
		return r.UpdateFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.put(u)
	return nil
}

func (r *MockUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byPhone, u.PhoneNumber)
	delete(r.byID, id)
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	if r.FindByEmailFunc != nil {
		return r.FindByEmailFunc(ctx, tx, email)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.User, error) {
	if r.FindByPhoneFunc != nil {
		return r.FindByPhoneFunc(ctx, tx, phone)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byPhone[phone]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) AddRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}

func (r *MockUserRepo) RemoveRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	out := u.Roles[:0]
	for _, x := range u.Roles {
		if x != role {
			out = append(out, x)
		}
	}
	u.Roles = out
	return nil
}

func (r *MockUserRepo) Search(ctx context.Context, tx repository.Tx, query, role string, p repository.Page) ([]*model.User, int, error) {
	if r.SearchFunc != nil {
		return r.SearchFunc(ctx, tx, query, role, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.User
	for _, u := range r.byID {
		if role != "" && !u.HasRole(role) {
			continue
		}
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, p), len(all), nil
}

// ---- Mock SubscriptionPlanRepository ----

type MockPlanRepo struct {
	mu   sync.Mutex
	byID map[string]*model.SubscriptionPlan

	SaveFunc     func(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error)
}

var _ repository.SubscriptionPlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{byID: map[string]*model.SubscriptionPlan{}}
}

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.SubscriptionPlan
	for _, p := range r.byID {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *MockPlanRepo) List(ctx context.Context, tx repository.Tx, p repository.Page, s repository.PlanSort, d repository.SortDirection) ([]*model.SubscriptionPlan, int, error) {
	all, _ := r.ListAll(ctx, tx)
	return paginate(all, p), len(all), nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Subscription

	SaveFunc             func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	DeleteFunc           func(ctx context.Context, tx repository.Tx, id string) error
	FindByIDFunc         func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error)
	FindActiveByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error)
	HasEligibleFunc      func(ctx context.Context, tx repository.Tx, userID string, now time.Time) (bool, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{byID: map[string]*model.Subscription{}}
}

func (r *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockSubscriptionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	if r.FindActiveByUserFunc != nil {
		return r.FindActiveByUserFunc(ctx, tx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *model.Subscription
	for _, s := range r.byID {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		if newest == nil || s.CreatedAt.After(newest.CreatedAt) {
			newest = s
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (r *MockSubscriptionRepo) HasEligible(ctx context.Context, tx repository.Tx, userID string, at time.Time) (bool, error) {
	if r.HasEligibleFunc != nil {
		return r.HasEligibleFunc(ctx, tx, userID, at)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.UserID == userID && s.EligibleAt(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockSubscriptionRepo) List(ctx context.Context, tx repository.Tx, userID string, p repository.Page, s repository.SubscriptionSort, d repository.SortDirection) ([]*model.Subscription, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.Subscription
	for _, sub := range r.byID {
		if userID != "" && sub.UserID != userID {
			continue
		}
		cp := *sub
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, p), len(all), nil
}

func (r *MockSubscriptionRepo) CountByState(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	at := time.Now().UTC()
	for _, s := range r.byID {
		switch {
		case !s.IsActive:
			counts["stopped"]++
		case s.IsPaused:
			counts["paused"]++
		case !s.EndDate.After(at):
			counts["expired"]++
		default:
			counts["running"]++
		}
	}
	return counts, nil
}

// ---- Mock ClubRepository ----

type MockClubRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Club
	slots   map[string]*model.NonPeakSlot
	FindErr error

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Club, error)
}

var _ repository.ClubRepository = (*MockClubRepo)(nil)

func NewMockClubRepo() *MockClubRepo {
	return &MockClubRepo{byID: map[string]*model.Club{}, slots: map[string]*model.NonPeakSlot{}}
}

func (r *MockClubRepo) Save(ctx context.Context, tx repository.Tx, c *model.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockClubRepo) Update(ctx context.Context, tx repository.Tx, c *model.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockClubRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MockClubRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Club, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	cp.NonPeakSlots = nil
	for _, s := range r.slots {
		if s.ClubID == id {
			cp.NonPeakSlots = append(cp.NonPeakSlots, *s)
		}
	}
	return &cp, nil
}

func (r *MockClubRepo) List(ctx context.Context, tx repository.Tx, p repository.Page, s repository.ClubSort, d repository.SortDirection) ([]*model.Club, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.Club
	for _, c := range r.byID {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, p), len(all), nil
}

func (r *MockClubRepo) SaveSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.slots[cp.ID] = &cp
	return nil
}

func (r *MockClubRepo) UpdateSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.slots[cp.ID] = &cp
	return nil
}

func (r *MockClubRepo) DeleteSlot(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *MockClubRepo) FindSlotByID(ctx context.Context, tx repository.Tx, id string) (*model.NonPeakSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockClubRepo) ListSlotsByClub(ctx context.Context, tx repository.Tx, clubID string) ([]model.NonPeakSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.NonPeakSlot
	for _, s := range r.slots {
		if s.ClubID == clubID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- Mock CheckInRepository ----

type MockCheckInRepo struct {
	mu   sync.Mutex
	byID map[string]*model.CheckIn

	SaveFunc                    func(ctx context.Context, tx repository.Tx, c *model.CheckIn) error
	FindLatestByUserAndClubFunc func(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.CheckIn, error)
}

var _ repository.CheckInRepository = (*MockCheckInRepo)(nil)

func NewMockCheckInRepo() *MockCheckInRepo {
	return &MockCheckInRepo{byID: map[string]*model.CheckIn{}}
}

func (r *MockCheckInRepo) Save(ctx context.Context, tx repository.Tx, c *model.CheckIn) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockCheckInRepo) FindLatestByUserAndClub(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.CheckIn, error) {
	if r.FindLatestByUserAndClubFunc != nil {
		return r.FindLatestByUserAndClubFunc(ctx, tx, userID, clubID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.CheckIn
	for _, c := range r.byID {
		if c.UserID != userID || c.ClubID != clubID {
			continue
		}
		if latest == nil || c.CheckInAt.After(latest.CheckInAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *MockCheckInRepo) ListByClub(ctx context.Context, tx repository.Tx, clubID string, p repository.Page, d repository.SortDirection) ([]*model.CheckIn, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.CheckIn
	for _, c := range r.byID {
		if c.ClubID == clubID {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CheckInAt.After(all[j].CheckInAt) })
	return paginate(all, p), len(all), nil
}

func (r *MockCheckInRepo) ListByClubBetween(ctx context.Context, tx repository.Tx, clubID string, from, to time.Time, p repository.Page, d repository.SortDirection) ([]*model.CheckIn, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.CheckIn
	for _, c := range r.byID {
		if c.ClubID != clubID || c.CheckInAt.Before(from) || !c.CheckInAt.Before(to) {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CheckInAt.After(all[j].CheckInAt) })
	return paginate(all, p), len(all), nil
}

func (r *MockCheckInRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, p repository.Page, d repository.SortDirection) ([]*model.CheckIn, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.CheckIn
	for _, c := range r.byID {
		if c.UserID == userID {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CheckInAt.After(all[j].CheckInAt) })
	return paginate(all, p), len(all), nil
}

// ---- Mock ClubUserRepository ----

type MockClubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.ClubUser

	ActiveClubIDsFunc func(ctx context.Context, tx repository.Tx, userID string) ([]string, error)
}

var _ repository.ClubUserRepository = (*MockClubUserRepo)(nil)

func NewMockClubUserRepo() *MockClubUserRepo {
	return &MockClubUserRepo{byID: map[string]*model.ClubUser{}}
}

func (r *MockClubUserRepo) Save(ctx context.Context, tx repository.Tx, cu *model.ClubUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cu
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockClubUserRepo) Update(ctx context.Context, tx repository.Tx, cu *model.ClubUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[cu.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *cu
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MockClubUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MockClubUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ClubUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cu, ok := r.byID[id]; ok {
		cp := *cu
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockClubUserRepo) FindByUserAndClub(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.ClubUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cu := range r.byID {
		if cu.UserID == userID && cu.ClubID == clubID {
			cp := *cu
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockClubUserRepo) ActiveClubIDs(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
	if r.ActiveClubIDsFunc != nil {
		return r.ActiveClubIDsFunc(ctx, tx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for _, cu := range r.byID {
		if cu.UserID == userID && cu.IsActive {
			ids = append(ids, cu.ClubID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MockClubUserRepo) List(ctx context.Context, tx repository.Tx, clubID string, clubScope []string, p repository.Page, d repository.SortDirection) ([]*model.ClubUser, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inScope := func(id string) bool {
		if clubScope == nil {
			return true
		}
		for _, s := range clubScope {
			if s == id {
				return true
			}
		}
		return false
	}
	var all []*model.ClubUser
	for _, cu := range r.byID {
		if clubID != "" && cu.ClubID != clubID {
			continue
		}
		if !inScope(cu.ClubID) {
			continue
		}
		cp := *cu
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, p), len(all), nil
}

// ---- Mock RefreshTokenRepository ----

type MockRefreshTokenRepo struct {
	mu      sync.Mutex
	byToken map[string]*model.RefreshToken

	SaveFunc        func(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error
	FindByTokenFunc func(ctx context.Context, tx repository.Tx, token string) (*model.RefreshToken, error)
}

var _ repository.RefreshTokenRepository = (*MockRefreshTokenRepo)(nil)

func NewMockRefreshTokenRepo() *MockRefreshTokenRepo {
	return &MockRefreshTokenRepo{byToken: map[string]*model.RefreshToken{}}
}

func (r *MockRefreshTokenRepo) Save(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.byToken[cp.Token] = &cp
	return nil
}

func (r *MockRefreshTokenRepo) Update(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byToken[t.Token]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	r.byToken[cp.Token] = &cp
	return nil
}

func (r *MockRefreshTokenRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.RefreshToken, error) {
	if r.FindByTokenFunc != nil {
		return r.FindByTokenFunc(ctx, tx, token)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byToken[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockRefreshTokenRepo) RevokeAllForUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.byToken {
		if t.UserID == userID && !t.IsRevoked {
			t.IsRevoked = true
			n++
		}
	}
	return n, nil
}

func (r *MockRefreshTokenRepo) DeleteStale(ctx context.Context, tx repository.Tx, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, t := range r.byToken {
		if t.IsUsed || t.IsRevoked || at.After(t.ExpiresAt) {
			delete(r.byToken, k)
			n++
		}
	}
	return n, nil
}

// =============================
// Identity provider
// =============================

// MockIdentity is a bcrypt-free identity provider backed by a
// MockUserRepo, with Func overrides mirroring the repo mocks.
type MockIdentity struct {
	Users *MockUserRepo

	mu        sync.Mutex
	passwords map[string]string

	FindByIDFunc       func(ctx context.Context, id string) (*model.User, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*model.User, error)
	FindByPhoneFunc    func(ctx context.Context, phone string) (*model.User, error)
	CreateFunc         func(ctx context.Context, tx repository.Tx, u *model.User, password string) error
	UpdateFunc         func(ctx context.Context, tx repository.Tx, u *model.User) error
	VerifyPasswordFunc func(ctx context.Context, userID, password string) error
	IsInRoleFunc       func(ctx context.Context, userID, role string) (bool, error)
	AssignRoleFunc     func(ctx context.Context, tx repository.Tx, userID, role string) error
}

var _ identity.Provider = (*MockIdentity)(nil)

func NewMockIdentity() *MockIdentity {
	return &MockIdentity{Users: NewMockUserRepo(), passwords: map[string]string{}}
}

// Seed registers a user with roles and password, bypassing validation.
func (m *MockIdentity) Seed(u *model.User, password string) {
	m.Users.Save(context.Background(), repository.NoTX, u)
	m.mu.Lock()
	m.passwords[u.ID] = password
	m.mu.Unlock()
}

func (m *MockIdentity) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Users.FindByID(ctx, repository.NoTX, id)
}

func (m *MockIdentity) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return m.Users.FindByEmail(ctx, repository.NoTX, email)
}

func (m *MockIdentity) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return m.Users.FindByPhone(ctx, repository.NoTX, phone)
}

func (m *MockIdentity) Create(ctx context.Context, tx repository.Tx, u *model.User, password string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, u, password)
	}
	if err := m.Users.Save(ctx, tx, u); err != nil {
		return err
	}
	m.mu.Lock()
	m.passwords[u.ID] = password
	m.mu.Unlock()
	return nil
}

func (m *MockIdentity) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, u)
	}
	return m.Users.Update(ctx, tx, u)
}

func (m *MockIdentity) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.Users.Delete(ctx, tx, id)
}

func (m *MockIdentity) VerifyPassword(ctx context.Context, userID, password string) error {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(ctx, userID, password)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.passwords[userID] != password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (m *MockIdentity) IsInRole(ctx context.Context, userID, role string) (bool, error) {
	if m.IsInRoleFunc != nil {
		return m.IsInRoleFunc(ctx, userID, role)
	}
	u, err := m.Users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

func (m *MockIdentity) AssignRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	if m.AssignRoleFunc != nil {
		return m.AssignRoleFunc(ctx, tx, userID, role)
	}
	return m.Users.AddRole(ctx, tx, userID, role)
}

func (m *MockIdentity) Search(ctx context.Context, query, role string, p repository.Page) ([]*model.User, int, error) {
	return m.Users.Search(ctx, repository.NoTX, query, role, p)
}

// =============================
// Transaction manager
// =============================

type MockTxManager struct {
	WithTxFunc  func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
	LockKeyFunc func(ctx context.Context, tx repository.Tx, key string) error

	mu         sync.Mutex
	LockedKeys []string
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs fn directly with a nil handle. Assign WithTxFunc to test
// rollback paths.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

func (m *MockTxManager) LockKey(ctx context.Context, tx repository.Tx, key string) error {
	if m.LockKeyFunc != nil {
		return m.LockKeyFunc(ctx, tx, key)
	}
	m.mu.Lock()
	m.LockedKeys = append(m.LockedKeys, key)
	m.mu.Unlock()
	return nil
}

// =============================
// Token issuer
// =============================

type MockTokenIssuer struct {
	IssueFunc func(user *model.User) (string, string, time.Time, error)
}

func (m *MockTokenIssuer) Issue(user *model.User) (string, string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user)
	}
	return "access-" + user.ID, uuid.NewString(), time.Now().UTC().Add(15 * time.Minute), nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// hashFor produces a real bcrypt hash when a test needs one.
func hashFor(password string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(h)
}
