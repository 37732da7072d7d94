// Package itemkey defines the canonical matching key for book and material names.
//
// Setup rows, purchase lines and distribution lines may carry the item name as
// free text entered at different times by different operators. All cross-ledger
// matching therefore goes through Normalize: names that differ only in case or
// whitespace refer to the same item.
package itemkey

import "strings"

// Key is a normalized item name used for matching across ledgers.
type Key string

// Normalize converts an item name to its matching key:
// leading/trailing whitespace trimmed, inner runs of whitespace collapsed
// to a single space, lowercased.
func Normalize(name string) Key {
	fields := strings.Fields(name)
	return Key(strings.ToLower(strings.Join(fields, " ")))
}

// IsEmpty reports whether the key carries no usable name.
func (k Key) IsEmpty() bool {
	return k == ""
}

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}
