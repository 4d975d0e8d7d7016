package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// BillingPeriodLayout is the time layout of a monthly billing period id
	BillingPeriodLayout = "2006-01"
)

// Base chart-of-accounts codes installed by the bootstrap step. Party and
// income accounts hang off these groups.
const (
	AccountCash        = "CASH"
	AccountBank        = "BANK"
	AccountRentIncome  = "RENT-INCOME"
	AccountCGSTPayable = "CGST-PAYABLE"
	AccountSGSTPayable = "SGST-PAYABLE"
	AccountIGSTPayable = "IGST-PAYABLE"
	AccountDebtors     = "SUNDRY-DEBTORS"
	AccountCreditors   = "SUNDRY-CREDITORS"
)
