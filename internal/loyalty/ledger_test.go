package loyalty

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/lotus/internal/models"
)

// memStore is an in-memory Store for exercising the ledger without a
// database.
type memStore struct {
	promotions []*models.Promotion
	wallets    []*models.Wallet
	claims     []*models.PromotionClaim
	vouchers   []*models.UserVoucher
	failSaves  bool
}

var errStoreDown = errors.New("store down")

func (m *memStore) SavePromotion(p *models.Promotion) error {
	if m.failSaves {
		return errStoreDown
	}
	m.promotions = append(m.promotions, p)
	return nil
}

func (m *memStore) SaveWallet(w *models.Wallet) error {
	if m.failSaves {
		return errStoreDown
	}
	m.wallets = append(m.wallets, w)
	return nil
}

func (m *memStore) CreateClaim(c *models.PromotionClaim) error {
	if m.failSaves {
		return errStoreDown
	}
	m.claims = append(m.claims, c)
	return nil
}

func (m *memStore) CreateVoucher(v *models.UserVoucher) error {
	if m.failSaves {
		return errStoreDown
	}
	m.vouchers = append(m.vouchers, v)
	return nil
}

func newTestLedger(store *memStore) *Ledger {
	l := NewLedger(store)
	l.now = func() time.Time { return testNow }
	return l
}

func testPromotion() *models.Promotion {
	p := &models.Promotion{
		Code:           "SPRING20",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  20,
		ExpiresAt:      testNow.Add(60 * 24 * time.Hour),
		TargetAudience: "All",
	}
	p.ID = uuid.New()
	return p
}

func testWallet(points, spins int) *models.Wallet {
	w := &models.Wallet{Points: points, SpinsLeft: spins}
	w.ID = uuid.New()
	return w
}

func TestClaimPromotion(t *testing.T) {
	store := &memStore{}
	ledger := newTestLedger(store)
	user := testUser()
	promo := testPromotion()

	claim, err := ledger.ClaimPromotion(user, promo, false)
	if err != nil {
		t.Fatalf("ClaimPromotion: %v", err)
	}
	if claim.UserID != user.ID || claim.PromotionID != promo.ID {
		t.Errorf("claim links wrong records: %+v", claim)
	}
	if promo.UsageCount != 1 {
		t.Errorf("usage count = %d, want 1", promo.UsageCount)
	}
	if len(store.claims) != 1 || len(store.promotions) != 1 {
		t.Errorf("expected claim and promotion persisted, got %d/%d", len(store.claims), len(store.promotions))
	}
}

func TestClaimPromotionIdempotent(t *testing.T) {
	store := &memStore{}
	ledger := newTestLedger(store)
	user := testUser()
	promo := testPromotion()

	if _, err := ledger.ClaimPromotion(user, promo, false); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	// Second claim is reported but changes nothing.
	_, err := ledger.ClaimPromotion(user, promo, true)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want ErrAlreadyClaimed", err)
	}
	if promo.UsageCount != 1 {
		t.Errorf("usage count after double claim = %d, want 1", promo.UsageCount)
	}
	if len(store.claims) != 1 {
		t.Errorf("claims persisted = %d, want 1", len(store.claims))
	}
}

func TestClaimPromotionRequiresUser(t *testing.T) {
	ledger := newTestLedger(&memStore{})
	if _, err := ledger.ClaimPromotion(nil, testPromotion(), false); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestRedeemVoucher(t *testing.T) {
	store := &memStore{}
	ledger := newTestLedger(store)
	user := testUser()
	wallet := testWallet(500, 0)

	catalog := &models.RedeemableVoucher{
		Title:              "50k off any facial",
		PointsRequired:     500,
		Value:              50000,
		ApplicableServices: []string{uuid.NewString()},
		TargetAudience:     "All",
	}

	voucher, err := ledger.RedeemVoucher(user, wallet, catalog)
	if err != nil {
		t.Fatalf("RedeemVoucher: %v", err)
	}

	if wallet.Points != 0 {
		t.Errorf("wallet points = %d, want 0", wallet.Points)
	}
	if voucher.DiscountType != models.DiscountFixed {
		t.Errorf("discount type = %q, want fixed", voucher.DiscountType)
	}
	if voucher.DiscountValue != 50000 {
		t.Errorf("discount value = %v, want 50000", voucher.DiscountValue)
	}
	if voucher.TargetAudience != "All" {
		t.Errorf("minted audience = %q, want All", voucher.TargetAudience)
	}
	if !voucher.ExpiresAt.Equal(testNow.Add(VoucherTTL)) {
		t.Errorf("expiry = %v, want now+30d", voucher.ExpiresAt)
	}
	if len(voucher.ApplicableServices) != 1 || voucher.ApplicableServices[0] != catalog.ApplicableServices[0] {
		t.Errorf("applicable services not copied: %v", voucher.ApplicableServices)
	}
	if !strings.HasPrefix(voucher.Code, "LTS-") {
		t.Errorf("code = %q, want generated LTS- code", voucher.Code)
	}
	if len(store.wallets) != 1 || len(store.vouchers) != 1 {
		t.Errorf("wallet and voucher must both persist, got %d/%d", len(store.wallets), len(store.vouchers))
	}
}

func TestRedeemVoucherFailurePathsLeaveWalletUntouched(t *testing.T) {
	user := testUser(func(u *models.User) { u.TierLevel = 1 })

	tests := []struct {
		name    string
		user    *models.User
		wallet  *models.Wallet
		voucher *models.RedeemableVoucher
		wantErr error
	}{
		{
			name:    "no user",
			user:    nil,
			wallet:  testWallet(1000, 0),
			voucher: &models.RedeemableVoucher{PointsRequired: 100, TargetAudience: "All"},
			wantErr: ErrNotAuthenticated,
		},
		{
			name:    "vip only",
			user:    user,
			wallet:  testWallet(1000, 0),
			voucher: &models.RedeemableVoucher{PointsRequired: 100, TargetAudience: "VIP"},
			wantErr: ErrIneligibleAudience,
		},
		{
			name:    "tier gate",
			user:    user,
			wallet:  testWallet(1000, 0),
			voucher: &models.RedeemableVoucher{PointsRequired: 100, TargetAudience: "Tier Level 4"},
			wantErr: ErrIneligibleAudience,
		},
		{
			name:    "unparseable audience fails closed",
			user:    user,
			wallet:  testWallet(1000, 0),
			voucher: &models.RedeemableVoucher{PointsRequired: 100, TargetAudience: "Tier Level ??"},
			wantErr: ErrIneligibleAudience,
		},
		{
			name:    "insufficient points",
			user:    user,
			wallet:  testWallet(99, 0),
			voucher: &models.RedeemableVoucher{PointsRequired: 100, TargetAudience: "All"},
			wantErr: ErrInsufficientPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			ledger := newTestLedger(store)
			before := tt.wallet.Points

			_, err := ledger.RedeemVoucher(tt.user, tt.wallet, tt.voucher)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wallet.Points != before {
				t.Errorf("wallet points changed on failure: %d -> %d", before, tt.wallet.Points)
			}
			if len(store.vouchers) != 0 || len(store.wallets) != 0 {
				t.Errorf("failure must persist nothing, got %d vouchers, %d wallet saves", len(store.vouchers), len(store.wallets))
			}
		})
	}
}

func TestRedeemVoucherNeverOverdraws(t *testing.T) {
	store := &memStore{}
	ledger := newTestLedger(store)
	user := testUser()
	wallet := testWallet(250, 0)
	catalog := &models.RedeemableVoucher{PointsRequired: 100, Value: 10000, TargetAudience: "All"}

	redeemed := 0
	for i := 0; i < 5; i++ {
		_, err := ledger.RedeemVoucher(user, wallet, catalog)
		if err == nil {
			redeemed++
			continue
		}
		if !errors.Is(err, ErrInsufficientPoints) {
			t.Fatalf("unexpected err: %v", err)
		}
		if wallet.Points < 0 {
			t.Fatalf("wallet went negative: %d", wallet.Points)
		}
	}

	if redeemed != 2 || wallet.Points != 50 {
		t.Errorf("redeemed %d times, balance %d; want 2 redemptions, balance 50", redeemed, wallet.Points)
	}
}
