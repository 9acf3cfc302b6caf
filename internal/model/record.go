package model

import (
	"github.com/shopspring/decimal"
)

// PurchaseType is a transaction-type label as printed on the statement,
// e.g. "Check Card Purchase".
type PurchaseType string

// DefaultPurchaseTypes is the priority order used when no configuration
// overrides it. Order matters: the parser keeps the last label contained in
// the raw text, so a general label listed after a more specific one wins.
var DefaultPurchaseTypes = []PurchaseType{
	"ATM Withdrawal",
	"Recurring Check Card Purchase",
	"Check Card Purchase",
	"Point of Sale Debit",
	"Electronic/ACH Debit",
}

// Record is one statement line item.
type Record struct {
	RawText      string          // matched substring, verbatim
	PurchaseType PurchaseType
	Amount       decimal.Decimal // non-negative magnitude
	Date         string          // "MM/DD", no whitespace
	Detail       string          // normalized lookup key
	Company      string          // empty when unclassified
	Category     string          // empty when unclassified
}

// Classified reports whether a directory entry matched the record.
func (r Record) Classified() bool {
	return r.Company != ""
}

// CategoryKey returns the category bucket the record aggregates under.
func (r Record) CategoryKey() string {
	if r.Category == "" {
		return Unclassified
	}
	return r.Category
}
