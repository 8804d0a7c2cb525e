package loyalty

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/example/lotus/internal/models"
)

// VoucherTTL is how long a minted voucher stays valid.
const VoucherTTL = 30 * 24 * time.Hour

// Store is the persistence port the ledger writes through. Handlers
// back it with a GORM transaction so a failed write rolls the whole
// operation back; tests back it with an in-memory fake.
type Store interface {
	SavePromotion(p *models.Promotion) error
	SaveWallet(w *models.Wallet) error
	CreateClaim(c *models.PromotionClaim) error
	CreateVoucher(v *models.UserVoucher) error
}

// Ledger applies claim and redemption rules and writes the results
// through the injected store. It holds no state of its own.
type Ledger struct {
	store Store
	now   func() time.Time
}

// NewLedger constructs a Ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// ClaimPromotion records that the user claimed the promotion and bumps
// its usage count. Claiming twice is a no-op reported as
// ErrAlreadyClaimed so callers can message it differently from a fresh
// claim. alreadyClaimed is looked up by the caller inside the same
// transaction that backs the store.
func (l *Ledger) ClaimPromotion(user *models.User, promo *models.Promotion, alreadyClaimed bool) (*models.PromotionClaim, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if alreadyClaimed {
		return nil, ErrAlreadyClaimed
	}

	claim := &models.PromotionClaim{
		UserID:      user.ID,
		PromotionID: promo.ID,
	}
	if err := l.store.CreateClaim(claim); err != nil {
		return nil, err
	}

	promo.UsageCount++
	if err := l.store.SavePromotion(promo); err != nil {
		return nil, err
	}

	return claim, nil
}

// RedeemVoucher debits the wallet and mints a personal voucher from the
// catalog entry. The debit and the mint go through the same store, so
// either both persist or neither does. The minted voucher is always
// fixed-discount, scoped to the catalog entry's services, addressed to
// everyone and valid for VoucherTTL from now.
func (l *Ledger) RedeemVoucher(user *models.User, wallet *models.Wallet, v *models.RedeemableVoucher) (*models.UserVoucher, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	now := l.now()
	if !Eligible(v.TargetAudience, user, now) {
		return nil, ErrIneligibleAudience
	}
	if wallet.Points < v.PointsRequired {
		return nil, ErrInsufficientPoints
	}

	wallet.Points -= v.PointsRequired
	if err := l.store.SaveWallet(wallet); err != nil {
		return nil, err
	}

	code, err := generateVoucherCode()
	if err != nil {
		return nil, err
	}

	voucher := &models.UserVoucher{
		UserID:             user.ID,
		Code:               code,
		Title:              v.Title,
		DiscountType:       models.DiscountFixed,
		DiscountValue:      v.Value,
		ExpiresAt:          now.Add(VoucherTTL),
		ApplicableServices: append(v.ApplicableServices[:0:0], v.ApplicableServices...),
		TargetAudience:     Audience{Kind: AudienceAll}.String(),
		Source:             models.VoucherSourceRedeem,
	}
	if err := l.store.CreateVoucher(voucher); err != nil {
		return nil, err
	}

	return voucher, nil
}

func generateVoucherCode() (string, error) {
	max := big.NewInt(100000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LTS-%08d", n.Int64()), nil
}
