package models

import "regexp"

const (
	MaxTxIDLength    = 128
	MaxAddressLength = 256
)

var (
	// Hex hashes with or without 0x, and opaque ids some chains use.
	txIDPattern = regexp.MustCompile(`^[A-Za-z0-9_:\-]+$`)
	// Plain addresses and contract principals such as SP2C2...ABC.token-name.
	addressPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

// ValidTxID reports whether id is a syntactically acceptable transaction id.
func ValidTxID(id string) bool {
	return id != "" && len(id) <= MaxTxIDLength && txIDPattern.MatchString(id)
}

// ValidAddress reports whether addr is a syntactically acceptable address or principal.
func ValidAddress(addr string) bool {
	return addr != "" && len(addr) <= MaxAddressLength && addressPattern.MatchString(addr)
}
