// Package cipher defines the pluggable content transform capability.
//
// The store applies Transform before persisting content of encrypted notes
// and Invert before returning it to callers. No concrete algorithm is chosen
// here: environments without a real provider use Identity, and the encrypted
// flag with its indexing exclusion stays in force either way.
package cipher

// Cipher converts note content to and from its stored representation.
type Cipher interface {
	Transform(plain string) (string, error)
	Invert(encoded string) (string, error)
}

// Identity is the default no-op Cipher.
type Identity struct{}

// Transform returns plain unchanged.
func (Identity) Transform(plain string) (string, error) { return plain, nil }

// Invert returns encoded unchanged.
func (Identity) Invert(encoded string) (string, error) { return encoded, nil }
