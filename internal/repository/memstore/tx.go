package memstore

import (
	"context"
	"time"

	"mainet/internal/domain"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memTx struct {
	s *Store
	d *gameData
}

func (t *memTx) LockProgression(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.Progression, error) {
	t.s.mu.RLock()
	_, known := t.s.users[userID]
	t.s.mu.RUnlock()
	if !known {
		return nil, repository.ErrNotFound
	}

	p, ok := t.d.progressions[userID]
	if !ok {
		p = domain.NewProgression(userID, now)
		t.d.progressions[userID] = p
	}
	return p.Clone(), nil
}

func (t *memTx) UpdateProgression(ctx context.Context, p *domain.Progression) error {
	if _, ok := t.d.progressions[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	t.d.progressions[p.UserID] = p.Clone()
	return nil
}

func (t *memTx) RigHashrate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, r := range t.d.rigs[userID] {
		total = total.Add(r.Hashrate())
	}
	return total, nil
}

func (t *memTx) InsertRig(ctx context.Context, r *domain.MiningRig) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	c := *r
	t.d.rigs[r.UserID] = append(t.d.rigs[r.UserID], &c)
	return nil
}

func (t *memTx) UpgradeLevel(ctx context.Context, userID uuid.UUID, typ domain.UpgradeType) (domain.UpgradeLevel, error) {
	if l, ok := t.d.upgrades[userID][typ]; ok {
		return l, nil
	}
	return domain.UpgradeLevel{UserID: userID, UpgradeType: typ, TotalCost: decimal.Zero}, nil
}

func (t *memTx) SaveUpgradeLevel(ctx context.Context, l *domain.UpgradeLevel) error {
	m, ok := t.d.upgrades[l.UserID]
	if !ok {
		m = map[domain.UpgradeType]domain.UpgradeLevel{}
		t.d.upgrades[l.UserID] = m
	}
	m[l.UpgradeType] = *l
	return nil
}

func (t *memTx) InsertTransaction(ctx context.Context, tr *domain.Transaction) error {
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now().UTC()
	}
	c := *tr
	t.d.transactions[tr.UserID] = append(t.d.transactions[tr.UserID], &c)
	return nil
}

func (t *memTx) FindVerification(ctx context.Context, userID uuid.UUID, transactionID string) (*domain.Verification, error) {
	v, ok := t.d.verifications[verificationKey{userID, transactionID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *v
	return &c, nil
}

func (t *memTx) SaveVerification(ctx context.Context, v *domain.Verification) error {
	key := verificationKey{v.UserID, v.TransactionID}
	if prev, ok := t.d.verifications[key]; ok {
		v.ID = prev.ID
		v.CreatedAt = prev.CreatedAt
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	c := *v
	t.d.verifications[key] = &c
	return nil
}
