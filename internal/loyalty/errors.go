package loyalty

import "errors"

// Rule violations returned by the ledger and the wheel. All of them are
// user-correctable: a failed operation leaves wallet, claims and
// vouchers untouched.
var (
	ErrNotAuthenticated   = errors.New("loyalty: not authenticated")
	ErrIneligibleAudience = errors.New("loyalty: user not in target audience")
	ErrInsufficientPoints = errors.New("loyalty: insufficient points")
	ErrAlreadyClaimed     = errors.New("loyalty: promotion already claimed")
	ErrNoSpinsLeft        = errors.New("loyalty: no spins left")
	ErrNoPrizes           = errors.New("loyalty: prize table is empty")
)
