// Package memstore is an in-memory repository.Store used in dev mode and in
// tests. Transactions are serialized by one mutex and work on a copy of the
// game data that replaces the live copy on commit.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"mainet/internal/domain"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type verificationKey struct {
	userID uuid.UUID
	txID   string
}

type gameData struct {
	progressions  map[uuid.UUID]*domain.Progression
	upgrades      map[uuid.UUID]map[domain.UpgradeType]domain.UpgradeLevel
	rigs          map[uuid.UUID][]*domain.MiningRig
	transactions  map[uuid.UUID][]*domain.Transaction
	verifications map[verificationKey]*domain.Verification
}

func newGameData() *gameData {
	return &gameData{
		progressions:  map[uuid.UUID]*domain.Progression{},
		upgrades:      map[uuid.UUID]map[domain.UpgradeType]domain.UpgradeLevel{},
		rigs:          map[uuid.UUID][]*domain.MiningRig{},
		transactions:  map[uuid.UUID][]*domain.Transaction{},
		verifications: map[verificationKey]*domain.Verification{},
	}
}

// clone copies every container. Stored rigs, transactions and verifications
// are never mutated in place, so their pointers can be shared.
func (d *gameData) clone() *gameData {
	c := newGameData()
	for id, p := range d.progressions {
		c.progressions[id] = p.Clone()
	}
	for id, m := range d.upgrades {
		c.upgrades[id] = maps.Clone(m)
	}
	for id, rs := range d.rigs {
		c.rigs[id] = slices.Clone(rs)
	}
	for id, ts := range d.transactions {
		c.transactions[id] = slices.Clone(ts)
	}
	maps.Copy(c.verifications, d.verifications)
	return c
}

// Store implements repository.Store in memory
type Store struct {
	txMu sync.Mutex // serializes WithinTx

	mu    sync.RWMutex
	data  *gameData
	users map[uuid.UUID]*domain.User
	audit []*domain.AuditLog
	seq   int64
}

func New() *Store {
	return &Store{
		data:  newGameData(),
		users: map[uuid.UUID]*domain.User{},
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(&memTx{s: s, d: work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	for _, other := range s.users {
		if other.Email == email || strings.EqualFold(other.Username, u.Username) {
			return repository.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	stored := *u
	stored.Email = email
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.users[u.ID] = &stored

	u.Email = email
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, u := range s.users {
		if id != except && strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Username != nil {
		for otherID, other := range s.users {
			if otherID != id && strings.EqualFold(other.Username, *upd.Username) {
				return nil, repository.ErrDuplicate
			}
		}
	}

	c := *u
	if upd.Username != nil {
		c.Username = *upd.Username
	}
	if upd.FullName != nil {
		c.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		c.Bio = *upd.Bio
	}
	if upd.AvatarURL != nil {
		c.AvatarURL = *upd.AvatarURL
	}
	c.UpdatedAt = time.Now().UTC()
	s.users[id] = &c

	out := c
	return &out, nil
}

func (s *Store) ListUpgrades(ctx context.Context, userID uuid.UUID) ([]domain.UpgradeLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []domain.UpgradeLevel
	for _, l := range s.data.upgrades[userID] {
		res = append(res, l)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UpgradeType < res[j].UpgradeType })
	return res, nil
}

func (s *Store) ListRigs(ctx context.Context, userID uuid.UUID) ([]*domain.MiningRig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rigs := s.data.rigs[userID]
	res := make([]*domain.MiningRig, 0, len(rigs))
	for i := len(rigs) - 1; i >= 0; i-- {
		c := *rigs[i]
		res = append(res, &c)
	}
	return res, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.data.transactions[userID]
	var res []*domain.Transaction
	for i := len(all) - 1 - offset; i >= 0 && len(res) < limit; i-- {
		c := *all[i]
		res = append(res, &c)
	}
	return res, nil
}

func (s *Store) ListVerifications(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Verification, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*domain.Verification
	for k, v := range s.data.verifications {
		if k.userID == userID {
			c := *v
			res = append(res, &c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s *Store) VerificationStats(ctx context.Context) (domain.VerificationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := domain.VerificationStats{TotalAmountVerified: decimal.Zero, TotalBonusPaid: decimal.Zero}
	for _, v := range s.data.verifications {
		st.Total++
		switch v.Status {
		case domain.VerificationVerified:
			st.Verified++
			st.TotalAmountVerified = st.TotalAmountVerified.Add(v.Amount)
		case domain.VerificationFailed:
			st.Failed++
		case domain.VerificationNotFound:
			st.NotFound++
		case domain.VerificationPending:
			st.Pending++
		}
		if v.BonusCredited {
			st.TotalBonusPaid = st.TotalBonusPaid.Add(v.BonusAmount)
		}
	}
	return st, nil
}

func (s *Store) InsertAudit(ctx context.Context, log *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	log.ID = s.seq
	log.CreatedAt = time.Now().UTC()
	c := *log
	s.audit = append(s.audit, &c)
	return nil
}

// AuditLogs returns a copy of every audit entry written so far
func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.AuditLog, 0, len(s.audit))
	for _, l := range s.audit {
		res = append(res, *l)
	}
	return res
}
