package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"mainet/internal/domain"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newUser(t *testing.T, s *Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.New(), Email: name + "@Example.com", Username: name, PasswordHash: "x"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := New()
	u := newUser(t, s, "alice")
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %s", u.Email)
	}

	dupEmail := &domain.User{ID: uuid.New(), Email: "ALICE@example.com", Username: "other"}
	if err := s.CreateUser(context.Background(), dupEmail); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for email, got %v", err)
	}
	dupName := &domain.User{ID: uuid.New(), Email: "b@example.com", Username: "Alice"}
	if err := s.CreateUser(context.Background(), dupName); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for username, got %v", err)
	}
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	s := New()
	u := newUser(t, s, "bob")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		p, err := tx.LockProgression(ctx, u.ID, time.Now())
		if err != nil {
			return err
		}
		p.CurrentBalance = decimal.Zero
		if err := tx.UpdateProgression(ctx, p); err != nil {
			return err
		}
		tr := domain.NewTransaction(u.ID, domain.TxTypePurchase, decimal.NewFromInt(1000), decimal.NewFromInt(-1000), "x", nil)
		if err := tx.InsertTransaction(ctx, tr); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	txs, _ := s.ListTransactions(ctx, u.ID, 10, 0)
	if len(txs) != 0 {
		t.Fatalf("rolled back transaction visible: %d", len(txs))
	}
	_ = s.WithinTx(ctx, func(tx repository.Tx) error {
		p, err := tx.LockProgression(ctx, u.ID, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if !p.CurrentBalance.Equal(domain.DefaultStartingBalance) {
			t.Fatalf("balance = %s after rollback", p.CurrentBalance)
		}
		return nil
	})
}

func TestWithinTx_UnknownUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		_, err := tx.LockProgression(ctx, uuid.New(), time.Now())
		return err
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListTransactions_NewestFirstWithOffset(t *testing.T) {
	s := New()
	u := newUser(t, s, "carol")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		err := s.WithinTx(ctx, func(tx repository.Tx) error {
			return tx.InsertTransaction(ctx, domain.NewTransaction(u.ID, domain.TxTypeUpgrade,
				decimal.Zero, decimal.NewFromInt(int64(i)), "", nil))
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListTransactions(ctx, u.ID, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got[0].Amount.Equal(decimal.NewFromInt(4)) || !got[1].Amount.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestSaveVerification_UpsertKeepsIdentity(t *testing.T) {
	s := New()
	u := newUser(t, s, "dave")
	ctx := context.Background()

	first := &domain.Verification{ID: uuid.New(), UserID: u.ID, TransactionID: "TX-1",
		Status: domain.VerificationPending, Amount: decimal.NewFromInt(10)}
	_ = s.WithinTx(ctx, func(tx repository.Tx) error { return tx.SaveVerification(ctx, first) })

	second := &domain.Verification{ID: uuid.New(), UserID: u.ID, TransactionID: "TX-1",
		Status: domain.VerificationVerified, Amount: decimal.NewFromInt(10), BonusAmount: decimal.NewFromInt(2), BonusCredited: true}
	_ = s.WithinTx(ctx, func(tx repository.Tx) error { return tx.SaveVerification(ctx, second) })

	if second.ID != first.ID {
		t.Fatalf("upsert changed id")
	}
	list, _ := s.ListVerifications(ctx, u.ID, 10)
	if len(list) != 1 || list[0].Status != domain.VerificationVerified {
		t.Fatalf("unexpected list %+v", list)
	}
	st, _ := s.VerificationStats(ctx)
	if st.Total != 1 || st.Verified != 1 || !st.TotalBonusPaid.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestCreateUser_ProgressionAnchoredByFirstLock(t *testing.T) {
	s := New()
	u := newUser(t, s, "anchor")
	ctx := context.Background()
	anchor := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		p, err := tx.LockProgression(ctx, u.ID, anchor)
		if err != nil {
			return err
		}
		if !p.LastUpdateAt.Equal(anchor) {
			t.Fatalf("anchor = %v; want %v", p.LastUpdateAt, anchor)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
