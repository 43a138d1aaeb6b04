package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mainet/internal/domain"
	"mainet/internal/payment"

	"github.com/shopspring/decimal"
)

func amountPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestVerify_CreditsOnceWithBonus(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "depositor")
	ctx := context.Background()
	req := VerifyRequest{TransactionID: "TESTTX001", Amount: amountPtr("100"), PaymentMethod: domain.PaymentPayeer}

	res, err := f.verify.Verify(ctx, uid, req)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Verified || res.Status != domain.VerificationVerified || res.AlreadyProcessed {
		t.Fatalf("result = %+v", res)
	}
	assertDec(t, "bonus", res.BonusAmount, "17")
	if res.Message != "Transaction verified! 100.00 USD + 17.00 bonus credited." {
		t.Fatalf("message = %q", res.Message)
	}

	gs := f.state(t, uid)
	assertDec(t, "balance", gs.CurrentBalance, "1117")

	again, err := f.verify.Verify(ctx, uid, req)
	if err != nil {
		t.Fatal(err)
	}
	if !again.AlreadyProcessed || again.Message != "Transaction already processed" {
		t.Fatalf("repeat = %+v", again)
	}
	assertDec(t, "balance after repeat", f.state(t, uid).CurrentBalance, "1117")

	txs, _ := f.profile.Transactions(ctx, uid, 10, 0)
	if len(txs) != 1 || txs[0].Type != domain.TxTypeDepositBonus {
		t.Fatalf("ledger = %+v", txs)
	}
	assertDec(t, "ledger amount", txs[0].Amount, "117")
	if f.notes.count(EventBalanceCredited) != 1 {
		t.Fatalf("credit notifications = %d", f.notes.count(EventBalanceCredited))
	}
}

func TestVerify_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "hopeful")

	res, err := f.verify.Verify(context.Background(), uid, VerifyRequest{
		TransactionID: "INVALID_TRANSACTION_12345",
		PaymentMethod: domain.PaymentPayeer,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified || res.Status != domain.VerificationNotFound {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Transaction not found or invalid" {
		t.Fatalf("message = %q", res.Message)
	}
	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1000")
}

func TestVerify_DefaultAmountPerMethod(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "faucet")

	res, err := f.verify.Verify(context.Background(), uid, VerifyRequest{
		TransactionID: "FP-0000001",
		PaymentMethod: "FaucetPay",
	})
	if err != nil {
		t.Fatal(err)
	}
	assertDec(t, "amount", res.Amount, "5")
	assertDec(t, "bonus", res.BonusAmount, "0.85")
	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1005.85")
}

func TestVerify_InputValidation(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "sloppy")
	ctx := context.Background()

	cases := []struct {
		name string
		req  VerifyRequest
		want error
	}{
		{"blank id", VerifyRequest{TransactionID: "  ", PaymentMethod: domain.PaymentPayeer}, ErrInvalidTransactionID},
		{"missing method", VerifyRequest{TransactionID: "TESTTX001"}, ErrInvalidPaymentMethod},
		{"bad method", VerifyRequest{TransactionID: "TESTTX001", PaymentMethod: "paypal"}, ErrInvalidPaymentMethod},
		{"negative amount", VerifyRequest{TransactionID: "TESTTX001", Amount: amountPtr("-1"), PaymentMethod: domain.PaymentPayeer}, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.verify.Verify(ctx, uid, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestVerify_PendingIsCheckedAgain(t *testing.T) {
	v := &scriptedVerifier{results: []payment.Result{{Status: domain.VerificationPending}}}
	f := newFixture(t, v)
	uid := f.register(t, "patient")
	ctx := context.Background()
	req := VerifyRequest{TransactionID: "PENDING001", Amount: amountPtr("10"), PaymentMethod: domain.PaymentPayeer}

	first, err := f.verify.Verify(ctx, uid, req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != domain.VerificationPending || first.AlreadyProcessed {
		t.Fatalf("first = %+v", first)
	}
	assertDec(t, "balance while pending", f.state(t, uid).CurrentBalance, "1000")

	second, err := f.verify.Verify(ctx, uid, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Verified || second.AlreadyProcessed {
		t.Fatalf("second = %+v", second)
	}
	if second.Verification.ID != first.Verification.ID {
		t.Fatal("re-check should update the same record")
	}
	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1011.7")

	third, _ := f.verify.Verify(ctx, uid, req)
	if !third.AlreadyProcessed {
		t.Fatalf("third = %+v", third)
	}
	if v.calls != 2 {
		t.Fatalf("provider calls = %d; want 2", v.calls)
	}

	hist, _ := f.verify.History(ctx, uid, 0)
	if len(hist) != 1 {
		t.Fatalf("history = %d", len(hist))
	}
}

func TestVerify_FailedLookupIsCheckedAgain(t *testing.T) {
	v := &scriptedVerifier{errs: []error{errors.New("connection refused")}}
	f := newFixture(t, v)
	uid := f.register(t, "unlucky")
	ctx := context.Background()
	req := VerifyRequest{TransactionID: "OUTAGE0001", PaymentMethod: domain.PaymentPayeer}

	res, err := f.verify.Verify(ctx, uid, req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified || res.Status != domain.VerificationFailed || res.AlreadyProcessed {
		t.Fatalf("result = %+v", res)
	}
	if res.Verification.ProviderDetail["reason"] != "connection refused" {
		t.Fatalf("detail = %v", res.Verification.ProviderDetail)
	}
	assertDec(t, "balance during outage", f.state(t, uid).CurrentBalance, "1000")

	// provider is back: resubmitting credits the deposit on the same record
	again, err := f.verify.Verify(ctx, uid, req)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Verified || again.AlreadyProcessed {
		t.Fatalf("again = %+v", again)
	}
	if again.Verification.ID != res.Verification.ID {
		t.Fatal("re-check should update the same record")
	}
	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1011.7")

	third, _ := f.verify.Verify(ctx, uid, req)
	if !third.AlreadyProcessed {
		t.Fatalf("third = %+v", third)
	}
	if v.calls != 2 {
		t.Fatalf("provider calls = %d; want 2", v.calls)
	}
}

func TestVerify_VerifiedWithoutAmountIsNotCredited(t *testing.T) {
	v := &scriptedVerifier{results: []payment.Result{{Status: domain.VerificationVerified}}}
	f := newFixture(t, v)
	uid := f.register(t, "claimer")

	res, err := f.verify.Verify(context.Background(), uid, VerifyRequest{
		TransactionID: "NOAMOUNT01",
		Amount:        amountPtr("500"),
		PaymentMethod: domain.PaymentFaucetPay,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified || res.Status != domain.VerificationFailed {
		t.Fatalf("result = %+v", res)
	}
	if res.Verification.ProviderDetail["reason"] != "provider reported no amount" {
		t.Fatalf("detail = %v", res.Verification.ProviderDetail)
	}
	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1000")
}

func TestVerify_ProviderAmountWins(t *testing.T) {
	v := &scriptedVerifier{results: []payment.Result{{Status: domain.VerificationVerified, Amount: dec("40"), Currency: "usd"}}}
	f := newFixture(t, v)
	uid := f.register(t, "overclaim")

	res, err := f.verify.Verify(context.Background(), uid, VerifyRequest{
		TransactionID: "LIVETX0001",
		Amount:        amountPtr("100"),
		PaymentMethod: domain.PaymentPayeer,
		Currency:      "EUR",
	})
	if err != nil {
		t.Fatal(err)
	}
	assertDec(t, "amount", res.Amount, "40")
	assertDec(t, "bonus", res.BonusAmount, "6.8")
	if res.Currency != "USD" {
		t.Fatalf("currency = %q; provider currency should win", res.Currency)
	}
	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1046.8")
}

func TestVerify_Currency(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "traveller")
	ctx := context.Background()

	res, err := f.verify.Verify(ctx, uid, VerifyRequest{
		TransactionID: "EURTX00001",
		Amount:        amountPtr("100"),
		PaymentMethod: domain.PaymentPayeer,
		Currency:      "eur",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Currency != "EUR" || res.Verification.Currency != "EUR" {
		t.Fatalf("currency = %q / %q", res.Currency, res.Verification.Currency)
	}
	if res.Message != "Transaction verified! 100.00 EUR + 17.00 bonus credited." {
		t.Fatalf("message = %q", res.Message)
	}

	def, _ := f.verify.Verify(ctx, uid, VerifyRequest{TransactionID: "USDTX00001", PaymentMethod: domain.PaymentPayeer})
	if def.Currency != "USD" {
		t.Fatalf("default currency = %q", def.Currency)
	}

	for _, bad := range []string{"EURO", "E1R", "€"} {
		_, err := f.verify.Verify(ctx, uid, VerifyRequest{TransactionID: "BADCUR0001", PaymentMethod: domain.PaymentPayeer, Currency: bad})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("currency %q: err = %v", bad, err)
		}
	}
}

func TestVerify_ConcurrentSubmissionsCreditOnce(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "spammer")
	ctx := context.Background()
	req := VerifyRequest{TransactionID: "TESTTX001", Amount: amountPtr("100"), PaymentMethod: domain.PaymentPayeer}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.verify.Verify(ctx, uid, req); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assertDec(t, "balance", f.state(t, uid).CurrentBalance, "1117")
	if txs, _ := f.profile.Transactions(ctx, uid, 50, 0); len(txs) != 1 {
		t.Fatalf("ledger entries = %d", len(txs))
	}
}

func TestVerify_SameIDIsPerUser(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()
	req := VerifyRequest{TransactionID: "SHARED0001", PaymentMethod: domain.PaymentPayeer}

	a, _ := f.verify.Verify(ctx, alice, req)
	b, _ := f.verify.Verify(ctx, bob, req)
	if !a.Verified || !b.Verified || b.AlreadyProcessed {
		t.Fatalf("alice=%+v bob=%+v", a, b)
	}
}

func TestBulkVerify(t *testing.T) {
	f := newFixture(t, nil)
	admin := f.register(t, "admin")
	ctx := context.Background()

	res, err := f.admin.BulkVerify(ctx, admin, domain.PaymentPayeer, []string{"BULKTX0001", "BULKTX0001", "INVALID_1", ""})
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 4 || res.Verified != 1 {
		t.Fatalf("processed=%d verified=%d", res.Processed, res.Verified)
	}
	if !res.Results[1].Result.AlreadyProcessed {
		t.Fatalf("duplicate id should be already processed: %+v", res.Results[1])
	}
	if res.Results[3].Error == "" {
		t.Fatalf("blank id should carry an error: %+v", res.Results[3])
	}
	assertDec(t, "balance", f.state(t, admin).CurrentBalance, "1011.7")

	st, err := f.admin.VerificationStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 2 || st.Verified != 1 || st.NotFound != 1 {
		t.Fatalf("stats = %+v", st)
	}
	assertDec(t, "bonus paid", st.TotalBonusPaid, "1.7")
}

func TestBulkVerify_CapsBatchSize(t *testing.T) {
	f := newFixture(t, nil)
	admin := f.register(t, "admin")

	ids := make([]string, maxBulkVerify+20)
	for i := range ids {
		ids[i] = "BULKTX0001"
	}
	res, err := f.admin.BulkVerify(context.Background(), admin, domain.PaymentPayeer, ids)
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != maxBulkVerify || res.Verified != 1 {
		t.Fatalf("processed=%d verified=%d", res.Processed, res.Verified)
	}
}

func TestBulkVerify_BadMethod(t *testing.T) {
	f := newFixture(t, nil)
	admin := f.register(t, "admin")
	if _, err := f.admin.BulkVerify(context.Background(), admin, "paypal", []string{"BULKTX0001"}); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("err = %v", err)
	}
}
