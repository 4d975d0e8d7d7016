package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrNotPartyAccount = errors.New("account is not a party account")

	// Configuration errors
	ErrConfigNotFound    = errors.New("no rent configuration for commodity")
	ErrRateInconsistency = errors.New("gst rate record is inconsistent: cgst+sgst != igst")
	ErrGSTRateNotFound   = errors.New("gst rate not found")

	// Lot errors
	ErrLotNotFound             = errors.New("lot not found")
	ErrInsufficientOutstanding = errors.New("dispatch exceeds lot outstanding quantity")
	ErrInvalidDateRange        = errors.New("date precedes lot receipt date")

	// Voucher errors
	ErrVoucherNotFound    = errors.New("voucher not found")
	ErrInvalidVoucherType = errors.New("unknown voucher type")
	ErrUnbalancedVoucher  = errors.New("voucher debits do not equal credits")
	ErrEmptyVoucher       = errors.New("voucher has no entries")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrBooksClosed        = errors.New("voucher dated before books-closed cutoff")
	ErrDuplicateBilling   = errors.New("already billed for this period")
	ErrAlreadyReversed    = errors.New("voucher already reversed")

	// Bill errors
	ErrBillNotFound      = errors.New("bill not found")
	ErrInvalidTransition = errors.New("invalid bill status transition")
)
