package common

import "strings"

// MediaURL resolves a stored media reference against the media base URL.
// Absolute references are returned untouched, empty ones as nil.
func MediaURL(base, ref string) *string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return &ref
	}
	if base == "" {
		return &ref
	}
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
	return &u
}
