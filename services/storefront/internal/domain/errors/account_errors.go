package errors

import "errors"

var (
	ErrMailboxTaken        = errors.New("this mailbox name is already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvoicePaid         = errors.New("this invoice is already paid")
	ErrInvoiceOrderMissing = errors.New("invoice is not linked to an order")
	ErrProductKeyRequired  = errors.New("please enter a product key")
	ErrForbiddenContent    = errors.New("your message contains words that are not allowed")
	ErrUnknownCountry      = errors.New("unknown country")
	ErrVariantNotFound     = errors.New("product variant not found")
)
