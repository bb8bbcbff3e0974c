package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrLedgerNameNotUnique           = errors.New("the ledger name must be unique")
	ErrAccountNameNotUnique          = errors.New("the account name must be unique for the ledger")
	ErrCategoryNameNotUnique         = errors.New("the category name must be unique for the ledger")
	ErrSubcategoryNameNotUnique      = errors.New("the subcategory name must be unique for the ledger")
	ErrSubcategoryLinkNotUnique      = errors.New("the subcategory is already linked to this category")
	ErrAccountDoesNotEqualTarget     = errors.New("source and target account of a transfer must be different")
	ErrTransactionAmountNegative     = errors.New("the transaction amount must not be negative")
	ErrTransactionTypeInvalid        = errors.New("the transaction type is invalid")
	ErrTransferTargetAccountRequired = errors.New("a transfer requires a target account")
)
