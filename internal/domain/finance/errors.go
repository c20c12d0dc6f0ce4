package finance

import "errors"

var (
	ErrTaxProfileNotFound    = errors.New("finance: tax profile not found")
	ErrProductCostNotFound   = errors.New("finance: product cost not found")
	ErrLogisticsRuleNotFound = errors.New("finance: logistics cost rule not found")
	ErrTransactionNotFound   = errors.New("finance: sale transaction not found")

	ErrInvalidRegime      = errors.New("finance: invalid tax regime")
	ErrInvalidTaxRate     = errors.New("finance: effective tax rate must be between 0 and 100")
	ErrInvalidSKU         = errors.New("finance: SKU is required")
	ErrNegativeCost       = errors.New("finance: cost values cannot be negative")
	ErrCreditsExceedGross = errors.New("finance: input credits cannot exceed gross cost")
	ErrDuplicateSKU       = errors.New("finance: product cost already exists for SKU")
	ErrDuplicateRule      = errors.New("finance: logistics rule already exists for shipping method")
	ErrInvalidAmount      = errors.New("finance: amount must be non-negative")
	ErrInvalidShipping    = errors.New("finance: shipping method is required")
	ErrInvalidExternalID  = errors.New("finance: external order ID is required")
)
