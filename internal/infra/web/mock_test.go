//go:build !integration

package web_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
)

// In-memory fakes for the full use-case wiring. The server tests run the
// real use cases and the real AuthManager over these, so a request walks
// the same path it would in production minus postgres and redis.

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

// ---- users + identity ----

type memIdentity struct {
	mu        sync.Mutex
	byID      map[string]*model.User
	passwords map[string]string
}

var _ identity.Provider = (*memIdentity)(nil)

func newMemIdentity() *memIdentity {
	return &memIdentity{byID: map[string]*model.User{}, passwords: map[string]string{}}
}

func (m *memIdentity) seed(u *model.User, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[cp.ID] = &cp
	m.passwords[cp.ID] = password
}

func (m *memIdentity) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memIdentity) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memIdentity) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.PhoneNumber == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memIdentity) Create(ctx context.Context, tx repository.Tx, u *model.User, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[cp.ID] = &cp
	m.passwords[cp.ID] = password
	return nil
}

func (m *memIdentity) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memIdentity) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.passwords, id)
	return nil
}

func (m *memIdentity) VerifyPassword(ctx context.Context, userID, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.passwords[userID]
	if !ok || stored != password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (m *memIdentity) IsInRole(ctx context.Context, userID, role string) (bool, error) {
	u, err := m.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

func (m *memIdentity) AssignRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}

func (m *memIdentity) Search(ctx context.Context, query, role string, p repository.Page) ([]*model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.User
	for _, u := range m.byID {
		if role != "" && !u.HasRole(role) {
			continue
		}
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, p), len(all), nil
}

// ---- refresh tokens ----

type memTokenRepo struct {
	mu      sync.Mutex
	byToken map[string]*model.RefreshToken
}

var _ repository.RefreshTokenRepository = (*memTokenRepo)(nil)

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byToken: map[string]*model.RefreshToken{}}
}

func (r *memTokenRepo) Save(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.byToken[cp.Token] = &cp
	return nil
}

func (r *memTokenRepo) Update(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byToken[t.Token]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	r.byToken[cp.Token] = &cp
	return nil
}

func (r *memTokenRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byToken[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memTokenRepo) RevokeAllForUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.byToken {
		if t.UserID == userID && !t.IsRevoked && !t.IsUsed {
			t.IsRevoked = true
			n++
		}
	}
	return n, nil
}

func (r *memTokenRepo) DeleteStale(ctx context.Context, tx repository.Tx, at time.Time) (int, error) {
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

// ---- subscriptions ----

type memSubRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Subscription
}

var _ repository.SubscriptionRepository = (*memSubRepo)(nil)

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{byID: map[string]*model.Subscription{}}
}

func (r *memSubRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memSubRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memSubRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memSubRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
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

func (r *memSubRepo) HasEligible(ctx context.Context, tx repository.Tx, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.UserID == userID && s.EligibleAt(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSubRepo) List(ctx context.Context, tx repository.Tx, userID string, p repository.Page, s repository.SubscriptionSort, d repository.SortDirection) ([]*model.Subscription, int, error) {
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

func (r *memSubRepo) CountByState(ctx context.Context, tx repository.Tx) (map[string]int, error) {
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

// ---- plans ----

type memPlanRepo struct {
	mu   sync.Mutex
	byID map[string]*model.SubscriptionPlan
}

var _ repository.SubscriptionPlanRepository = (*memPlanRepo)(nil)

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{byID: map[string]*model.SubscriptionPlan{}}
}

func (r *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
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

func (r *memPlanRepo) List(ctx context.Context, tx repository.Tx, p repository.Page, s repository.PlanSort, d repository.SortDirection) ([]*model.SubscriptionPlan, int, error) {
	all, _ := r.ListAll(ctx, tx)
	return paginate(all, p), len(all), nil
}

// ---- clubs ----

type memClubRepo struct {
	mu    sync.Mutex
	byID  map[string]*model.Club
	slots map[string]*model.NonPeakSlot
}

var _ repository.ClubRepository = (*memClubRepo)(nil)

func newMemClubRepo() *memClubRepo {
	return &memClubRepo{byID: map[string]*model.Club{}, slots: map[string]*model.NonPeakSlot{}}
}

func (r *memClubRepo) Save(ctx context.Context, tx repository.Tx, c *model.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memClubRepo) Update(ctx context.Context, tx repository.Tx, c *model.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memClubRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memClubRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Club, error) {
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

func (r *memClubRepo) List(ctx context.Context, tx repository.Tx, p repository.Page, s repository.ClubSort, d repository.SortDirection) ([]*model.Club, int, error) {
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

func (r *memClubRepo) SaveSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.slots[cp.ID] = &cp
	return nil
}

func (r *memClubRepo) UpdateSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.slots[cp.ID] = &cp
	return nil
}

func (r *memClubRepo) DeleteSlot(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *memClubRepo) FindSlotByID(ctx context.Context, tx repository.Tx, id string) (*model.NonPeakSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memClubRepo) ListSlotsByClub(ctx context.Context, tx repository.Tx, clubID string) ([]model.NonPeakSlot, error) {
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

// ---- check-ins ----

type memCheckInRepo struct {
	mu   sync.Mutex
	byID map[string]*model.CheckIn
}

var _ repository.CheckInRepository = (*memCheckInRepo)(nil)

func newMemCheckInRepo() *memCheckInRepo {
	return &memCheckInRepo{byID: map[string]*model.CheckIn{}}
}

func (r *memCheckInRepo) Save(ctx context.Context, tx repository.Tx, c *model.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memCheckInRepo) FindLatestByUserAndClub(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.CheckIn, error) {
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

func (r *memCheckInRepo) ListByClub(ctx context.Context, tx repository.Tx, clubID string, p repository.Page, d repository.SortDirection) ([]*model.CheckIn, int, error) {
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

func (r *memCheckInRepo) ListByClubBetween(ctx context.Context, tx repository.Tx, clubID string, from, to time.Time, p repository.Page, d repository.SortDirection) ([]*model.CheckIn, int, error) {
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

func (r *memCheckInRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, p repository.Page, d repository.SortDirection) ([]*model.CheckIn, int, error) {
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

// ---- club staff links ----

type memClubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.ClubUser
}

var _ repository.ClubUserRepository = (*memClubUserRepo)(nil)

func newMemClubUserRepo() *memClubUserRepo {
	return &memClubUserRepo{byID: map[string]*model.ClubUser{}}
}

func (r *memClubUserRepo) Save(ctx context.Context, tx repository.Tx, cu *model.ClubUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cu
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memClubUserRepo) Update(ctx context.Context, tx repository.Tx, cu *model.ClubUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[cu.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *cu
	r.byID[cp.ID] = &cp
	return nil
}

func (r *memClubUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memClubUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ClubUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cu, ok := r.byID[id]; ok {
		cp := *cu
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memClubUserRepo) FindByUserAndClub(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.ClubUser, error) {
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

func (r *memClubUserRepo) ActiveClubIDs(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
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

func (r *memClubUserRepo) List(ctx context.Context, tx repository.Tx, clubID string, clubScope []string, p repository.Page, d repository.SortDirection) ([]*model.ClubUser, int, error) {
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

// ---- transaction manager ----

type memTxManager struct{}

var _ repository.TransactionManager = (*memTxManager)(nil)

func (m *memTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

func (m *memTxManager) LockKey(ctx context.Context, tx repository.Tx, key string) error {
	return nil
}

// ---- redis ----

// fakeRedis counts Incr calls per key, which is all the rate limiter
// needs. Err poisons every call to simulate an outage.
type fakeRedis struct {
	mu     sync.Mutex
	counts map[string]int64
	Err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: map[string]int64{}}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return f.Err }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return f.Err
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	return "", f.Err
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return f.Err
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error { return f.Err }

func (f *fakeRedis) Close() error { return nil }

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
