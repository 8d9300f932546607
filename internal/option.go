package internal

import "github.com/starford/laguz/internal/cipher"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	cipher cipher.Cipher
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithCipher sets the content transform provider. Absent a provider the
// store falls back to the identity transform.
func WithCipher(c cipher.Cipher) Option {
	return func(a *application) {
		a.cipher = c
	}
}
