package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/pkg/notify"
)

// memStore is an in-memory repository.Store. InPrizeTx runs fn directly
// against the shared maps; the services under test are exercised for their
// logic, not for transactional isolation.
type memStore struct {
	mu        sync.Mutex
	events    map[string]*model.Event
	donors    map[string]*model.Donor
	donations map[string][]*model.QualifyingDonation
	prizes    map[string]*model.Prize
	entries   map[string][]*model.DonorPrizeEntry
	claims    map[string]*model.PrizeClaim
	keys      []*model.PrizeKey
}

func newMemStore() *memStore {
	return &memStore{
		events:    make(map[string]*model.Event),
		donors:    make(map[string]*model.Donor),
		donations: make(map[string][]*model.QualifyingDonation),
		prizes:    make(map[string]*model.Prize),
		entries:   make(map[string][]*model.DonorPrizeEntry),
		claims:    make(map[string]*model.PrizeClaim),
	}
}

func (s *memStore) Repos() repository.Repositories {
	return repository.Repositories{
		Events:    memEventRepo{s},
		Donors:    memDonorRepo{s},
		Donations: memDonationRepo{s},
		Prizes:    memPrizeRepo{s},
		Claims:    memClaimRepo{s},
		Keys:      memKeyRepo{s},
	}
}

func (s *memStore) InPrizeTx(ctx context.Context, prizeID string, fn func(repository.Repositories) error) error {
	if _, ok := s.prizes[prizeID]; !ok {
		return repository.ErrNotFound
	}
	return fn(s.Repos())
}

// addDonation records one completed, non-test donation already joined with
// the donor's region.
func (s *memStore) addDonation(eventID string, d *model.QualifyingDonation) {
	s.donations[eventID] = append(s.donations[eventID], d)
}

func (s *memStore) claimFor(prizeID, donorID string) *model.PrizeClaim {
	for _, c := range s.claims {
		if c.PrizeID == prizeID && c.DonorID == donorID {
			return c
		}
	}
	return nil
}

type memEventRepo struct{ s *memStore }

func (r memEventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r memEventRepo) List(ctx context.Context) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range r.s.events {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

type memDonorRepo struct{ s *memStore }

func (r memDonorRepo) GetByID(ctx context.Context, id string) (*model.Donor, error) {
	d, ok := r.s.donors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

type memDonationRepo struct{ s *memStore }

func (r memDonationRepo) Qualifying(ctx context.Context, q repository.DonationQuery) ([]*model.QualifyingDonation, error) {
	return r.s.donations[q.EventID], nil
}

type memPrizeRepo struct{ s *memStore }

func (r memPrizeRepo) GetByID(ctx context.Context, id string) (*model.Prize, error) {
	p, ok := r.s.prizes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPrizeRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.Prize, error) {
	var out []*model.Prize
	for _, p := range r.s.prizes {
		if p.EventID == eventID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memPrizeRepo) Create(ctx context.Context, p *model.Prize) error {
	cp := *p
	r.s.prizes[p.ID] = &cp
	return nil
}

func (r memPrizeRepo) Update(ctx context.Context, p *model.Prize) error {
	if _, ok := r.s.prizes[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.s.prizes[p.ID] = &cp
	return nil
}

func (r memPrizeRepo) SetMaxWinners(ctx context.Context, id string, n int) error {
	p, ok := r.s.prizes[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.MaxWinners = n
	return nil
}

func (r memPrizeRepo) ListEntries(ctx context.Context, prizeID string) ([]*model.DonorPrizeEntry, error) {
	return r.s.entries[prizeID], nil
}

type memClaimRepo struct{ s *memStore }

func (r memClaimRepo) GetByID(ctx context.Context, id string) (*model.PrizeClaim, error) {
	c, ok := r.s.claims[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memClaimRepo) GetByPrizeAndDonor(ctx context.Context, prizeID, donorID string) (*model.PrizeClaim, error) {
	if c := r.s.claimFor(prizeID, donorID); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r memClaimRepo) ListByPrize(ctx context.Context, prizeID string) ([]*model.PrizeClaim, error) {
	var out []*model.PrizeClaim
	for _, c := range r.s.claims {
		if c.PrizeID == prizeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DonorID < out[j].DonorID })
	return out, nil
}

func (r memClaimRepo) Create(ctx context.Context, c *model.PrizeClaim) error {
	if r.s.claimFor(c.PrizeID, c.DonorID) != nil {
		return repository.ErrDuplicate
	}
	cp := *c
	r.s.claims[c.ID] = &cp
	return nil
}

func (r memClaimRepo) Update(ctx context.Context, c *model.PrizeClaim) error {
	if _, ok := r.s.claims[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.s.claims[c.ID] = &cp
	return nil
}

func (r memClaimRepo) ListExpiredPending(ctx context.Context, eventID string, now time.Time) ([]*model.PrizeClaim, error) {
	var out []*model.PrizeClaim
	for _, c := range r.s.claims {
		if !c.Expired(now) {
			continue
		}
		if eventID != "" {
			p, ok := r.s.prizes[c.PrizeID]
			if !ok || p.EventID != eventID {
				continue
			}
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memKeyRepo struct{ s *memStore }

func (r memKeyRepo) ListByPrize(ctx context.Context, prizeID string) ([]*model.PrizeKey, error) {
	var out []*model.PrizeKey
	for _, k := range r.s.keys {
		if k.PrizeID == prizeID {
			cp := *k
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memKeyRepo) ListUnclaimed(ctx context.Context, prizeID string) ([]*model.PrizeKey, error) {
	var out []*model.PrizeKey
	for _, k := range r.s.keys {
		if k.PrizeID == prizeID && !k.Claimed() {
			cp := *k
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memKeyRepo) CountByPrize(ctx context.Context, prizeID string) (int, error) {
	n := 0
	for _, k := range r.s.keys {
		if k.PrizeID == prizeID {
			n++
		}
	}
	return n, nil
}

func (r memKeyRepo) GetByClaim(ctx context.Context, claimID string) (*model.PrizeKey, error) {
	for _, k := range r.s.keys {
		if k.ClaimID == claimID {
			cp := *k
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memKeyRepo) Exists(ctx context.Context, code string) (bool, error) {
	for _, k := range r.s.keys {
		if k.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r memKeyRepo) Create(ctx context.Context, k *model.PrizeKey) error {
	for _, existing := range r.s.keys {
		if existing.Code == k.Code {
			return repository.ErrDuplicate
		}
	}
	cp := *k
	r.s.keys = append(r.s.keys, &cp)
	return nil
}

func (r memKeyRepo) Assign(ctx context.Context, keyID, claimID string) error {
	for _, k := range r.s.keys {
		if k.ID == keyID {
			if k.Claimed() {
				return repository.ErrKeyAssigned
			}
			k.ClaimID = claimID
			return nil
		}
	}
	return repository.ErrNotFound
}

// mockNotifier records sent messages. sendFunc overrides the default success.
type mockNotifier struct {
	mu       sync.Mutex
	sent     []notify.Message
	sendFunc func(ctx context.Context, msg notify.Message) error
}

func (m *mockNotifier) Send(ctx context.Context, msg notify.Message) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}
