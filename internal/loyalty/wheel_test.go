package loyalty

import (
	"errors"
	"testing"

	"github.com/example/lotus/internal/models"
)

func fixedDraw(idx int) func(int) int {
	return func(n int) int { return idx % n }
}

func TestSpinAwardsPoints(t *testing.T) {
	store := &memStore{}
	ledger := newTestLedger(store)
	user := testUser()
	wallet := testWallet(50, 1)

	prizes := []models.WheelPrize{{Label: "100 points", Kind: models.PrizePoints, Value: 100}}

	result, err := ledger.Spin(user, wallet, prizes, fixedDraw(0))
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if wallet.SpinsLeft != 0 {
		t.Errorf("spins left = %d, want 0", wallet.SpinsLeft)
	}
	if wallet.Points != 150 {
		t.Errorf("points = %d, want 150", wallet.Points)
	}
	if result.Prize.Kind != models.PrizePoints {
		t.Errorf("prize kind = %q", result.Prize.Kind)
	}
	if len(store.wallets) != 1 {
		t.Errorf("wallet must persist once, got %d saves", len(store.wallets))
	}
}

func TestSpinWithoutSpinsIsNoop(t *testing.T) {
	store := &memStore{}
	ledger := newTestLedger(store)
	user := testUser()
	wallet := testWallet(50, 0)

	prizes := []models.WheelPrize{{Label: "100 points", Kind: models.PrizePoints, Value: 100}}

	_, err := ledger.Spin(user, wallet, prizes, fixedDraw(0))
	if !errors.Is(err, ErrNoSpinsLeft) {
		t.Fatalf("err = %v, want ErrNoSpinsLeft", err)
	}
	if wallet.Points != 50 || wallet.SpinsLeft != 0 {
		t.Errorf("wallet mutated on no-op spin: %+v", wallet)
	}
	if len(store.wallets) != 0 {
		t.Errorf("no-op spin must persist nothing")
	}
}

func TestSpinExtraSpinPrize(t *testing.T) {
	ledger := newTestLedger(&memStore{})
	wallet := testWallet(0, 1)

	prizes := []models.WheelPrize{{Label: "2 free spins", Kind: models.PrizeSpin, Value: 2}}

	if _, err := ledger.Spin(testUser(), wallet, prizes, fixedDraw(0)); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	// One consumed, two granted.
	if wallet.SpinsLeft != 2 {
		t.Errorf("spins left = %d, want 2", wallet.SpinsLeft)
	}
}

func TestSpinMintsVoucher(t *testing.T) {
	tests := []struct {
		kind         string
		wantDiscount string
	}{
		{models.PrizeVoucher, models.DiscountPercentage},
		{models.PrizeVoucherFixed, models.DiscountFixed},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			store := &memStore{}
			ledger := newTestLedger(store)
			user := testUser()
			wallet := testWallet(0, 1)

			prizes := []models.WheelPrize{{Label: "Lucky voucher", Kind: tt.kind, Value: 15}}

			result, err := ledger.Spin(user, wallet, prizes, fixedDraw(0))
			if err != nil {
				t.Fatalf("Spin: %v", err)
			}
			if result.Voucher == nil {
				t.Fatal("voucher prize must mint a voucher")
			}
			if result.Voucher.DiscountType != tt.wantDiscount {
				t.Errorf("discount type = %q, want %q", result.Voucher.DiscountType, tt.wantDiscount)
			}
			if result.Voucher.TargetAudience != "All" {
				t.Errorf("minted audience = %q, want All", result.Voucher.TargetAudience)
			}
			if len(result.Voucher.ApplicableServices) != 0 {
				t.Errorf("wheel vouchers are unscoped, got %v", result.Voucher.ApplicableServices)
			}
			if !result.Voucher.ExpiresAt.Equal(testNow.Add(VoucherTTL)) {
				t.Errorf("expiry = %v, want now+30d", result.Voucher.ExpiresAt)
			}
			if result.Voucher.Source != models.VoucherSourceWheel {
				t.Errorf("source = %q, want wheel", result.Voucher.Source)
			}
			if len(store.vouchers) != 1 {
				t.Errorf("voucher must persist, got %d", len(store.vouchers))
			}
		})
	}
}

func TestSpinNothingPrize(t *testing.T) {
	ledger := newTestLedger(&memStore{})
	wallet := testWallet(80, 3)

	prizes := []models.WheelPrize{{Label: "Better luck next time", Kind: models.PrizeNothing}}

	result, err := ledger.Spin(testUser(), wallet, prizes, fixedDraw(0))
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if wallet.Points != 80 || wallet.SpinsLeft != 2 {
		t.Errorf("nothing prize must only consume the spin: %+v", wallet)
	}
	if result.Voucher != nil {
		t.Error("nothing prize must not mint a voucher")
	}
}

func TestSpinDrawIsUniformOverTable(t *testing.T) {
	ledger := newTestLedger(&memStore{})

	prizes := []models.WheelPrize{
		{Label: "a", Kind: models.PrizeNothing},
		{Label: "b", Kind: models.PrizeNothing},
		{Label: "c", Kind: models.PrizeNothing},
	}

	// The selector picks exactly the index the source returns; weighting
	// comes only from duplicated table entries.
	for idx := 0; idx < len(prizes); idx++ {
		wallet := testWallet(0, 1)
		result, err := ledger.Spin(testUser(), wallet, prizes, fixedDraw(idx))
		if err != nil {
			t.Fatalf("Spin: %v", err)
		}
		if result.Prize.Label != prizes[idx].Label {
			t.Errorf("draw %d selected %q, want %q", idx, result.Prize.Label, prizes[idx].Label)
		}
	}
}

func TestSpinRequiresUser(t *testing.T) {
	ledger := newTestLedger(&memStore{})
	wallet := testWallet(0, 1)

	_, err := ledger.Spin(nil, wallet, []models.WheelPrize{{Kind: models.PrizeNothing}}, fixedDraw(0))
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if wallet.SpinsLeft != 1 {
		t.Errorf("wallet mutated: %+v", wallet)
	}
}
