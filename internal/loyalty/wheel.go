package loyalty

import (
	"math/rand"

	"github.com/example/lotus/internal/models"
)

// SpinResult is what a completed spin produced. Voucher is set only for
// voucher prizes.
type SpinResult struct {
	Prize   models.WheelPrize   `json:"prize"`
	Voucher *models.UserVoucher `json:"voucher,omitempty"`
}

// Spin consumes one spin and draws a prize uniformly from the table.
// The spin is deducted before the draw: a spin is spent even before the
// outcome is known. draw picks an index in [0,n); pass nil for the
// default random source (tests inject a deterministic one).
//
// Concurrent spins on one wallet must be serialized by the caller; the
// handlers do it with a row lock on the wallet inside the transaction
// backing the store.
func (l *Ledger) Spin(user *models.User, wallet *models.Wallet, prizes []models.WheelPrize, draw func(n int) int) (*SpinResult, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if wallet.SpinsLeft <= 0 {
		return nil, ErrNoSpinsLeft
	}
	if len(prizes) == 0 {
		return nil, ErrNoPrizes
	}
	if draw == nil {
		draw = rand.Intn
	}

	wallet.SpinsLeft--

	prize := prizes[draw(len(prizes))]
	result := &SpinResult{Prize: prize}

	switch prize.Kind {
	case models.PrizePoints:
		wallet.Points += int(prize.Value)
	case models.PrizeSpin:
		wallet.SpinsLeft += int(prize.Value)
	case models.PrizeVoucher, models.PrizeVoucherFixed:
		discountType := models.DiscountPercentage
		if prize.Kind == models.PrizeVoucherFixed {
			discountType = models.DiscountFixed
		}

		code, err := generateVoucherCode()
		if err != nil {
			return nil, err
		}

		voucher := &models.UserVoucher{
			UserID:         user.ID,
			Code:           code,
			Title:          prize.Label,
			DiscountType:   discountType,
			DiscountValue:  prize.Value,
			ExpiresAt:      l.now().Add(VoucherTTL),
			TargetAudience: Audience{Kind: AudienceAll}.String(),
			Source:         models.VoucherSourceWheel,
		}
		if err := l.store.CreateVoucher(voucher); err != nil {
			return nil, err
		}
		result.Voucher = voucher
	case models.PrizeNothing:
		// Spin consumed, nothing won.
	}

	if err := l.store.SaveWallet(wallet); err != nil {
		return nil, err
	}

	return result, nil
}
