package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")

// Ledger posting preconditions.
var (
	ErrInvalidAccountName = errors.New("Invalid account name: use USA or BURKINA")
	ErrInvalidAmount      = errors.New("Amount must be positive")
	ErrInvalidEntryType   = errors.New("Entry type must be DEBIT or CREDIT")
	ErrCurrencyMismatch   = errors.New("Currency does not match the account currency")
	ErrProofRequired      = errors.New("A proof file is required for this operation")
)

// Fee computation.
var (
	ErrUnsupportedCurrency = errors.New("Unsupported currency: use USD or XOF")
	ErrInvalidFeeOverride  = errors.New("Custom fees cannot be negative or exceed the calculated fees")
)

// Transfer lifecycle.
var (
	ErrTransferNotFound                = errors.New("Transfer not found")
	ErrDuplicateReference              = errors.New("Transfer reference already exists")
	ErrInvalidStatusForConfirmation    = errors.New("Only pending transfers can be confirmed")
	ErrAlreadyPaid                     = errors.New("A paid transfer cannot be cancelled")
	ErrAlreadyCancelled                = errors.New("Transfer is already cancelled")
	ErrUnauthorizedCountryConfirmation = errors.New("Transfers must be confirmed by an agent of the opposite country")
)

// Authorization.
var (
	ErrAdminOnly         = errors.New("Only administrators can perform this action")
	ErrBurkinaTillOnly   = errors.New("Burkina agents can only operate on the BURKINA till")
	ErrInvalidCredential = errors.New("Invalid username or password")
)
