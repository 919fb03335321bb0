// Package lifecycle provides the key/value snapshot used to carry session
// state across a suspension of the display, and a file store for it.
package lifecycle

// Bundle is a flat key/value snapshot. Missing keys read as zero values.
type Bundle struct {
	Bools map[string]bool `json:"bools,omitempty"`
	Ints  map[string]int  `json:"ints,omitempty"`
}

// NewBundle creates an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		Bools: make(map[string]bool),
		Ints:  make(map[string]int),
	}
}

// PutBool stores a boolean under key.
func (b *Bundle) PutBool(key string, v bool) {
	if b.Bools == nil {
		b.Bools = make(map[string]bool)
	}
	b.Bools[key] = v
}

// PutInt stores an integer under key.
func (b *Bundle) PutInt(key string, v int) {
	if b.Ints == nil {
		b.Ints = make(map[string]int)
	}
	b.Ints[key] = v
}

// Bool returns the boolean stored under key, or false.
func (b *Bundle) Bool(key string) bool {
	if b == nil {
		return false
	}
	return b.Bools[key]
}

// Int returns the integer stored under key, or 0.
func (b *Bundle) Int(key string) int {
	if b == nil {
		return 0
	}
	return b.Ints[key]
}

// Len returns the number of stored keys.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Bools) + len(b.Ints)
}
