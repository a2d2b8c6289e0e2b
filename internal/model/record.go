// Package model defines the core data types shared across pipeline stages.
package model

// RawRecord is a source row before validation, kept as raw cell values so
// rows that fail to parse can still be reported field by field.
type RawRecord struct {
	TransactionID string
	ItemID        string
	Description   string
	Quantity      string
	Timestamp     string
	CustomerID    string
	UnitPrice     string
	Line          int // 1-based source row number, header excluded
}

// Discard pairs a rejected source row with every validation reason that fired.
type Discard struct {
	Record  RawRecord
	Reasons []string
}
