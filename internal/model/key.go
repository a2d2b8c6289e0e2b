package model

import (
	"strings"
)

// NormalizeKey canonicalizes a transaction or customer identifier at every
// boundary where it crosses from one file format to another. Identifiers
// round-trip through numeric cells upstream, so the same id can surface as
// "17850", " 17850" or "17850.0" depending on which stage wrote it; joins
// between the period mapping and the matrix artifact must survive all
// three forms.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)

	// Collapse an integral float rendering like "17850.0" or "17850.00".
	if dot := strings.IndexByte(key, '.'); dot > 0 {
		frac := key[dot+1:]
		if frac != "" && allZero(frac) && allDigit(key[:dot]) {
			return key[:dot]
		}
	}

	return key
}

func allZero(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}

func allDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
