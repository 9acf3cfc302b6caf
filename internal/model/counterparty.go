package model

// Counterparty is one entry of the counterparty directory.
type Counterparty struct {
	Shorthand string // uppercase fragment searched for inside a detail key
	Name      string
	Category  string
}
