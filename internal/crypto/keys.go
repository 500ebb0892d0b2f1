package crypto

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length, in bytes, of the per-database passphrase salt.
const SaltSize = 16

// Argon2Params holds the Argon2id tuning knobs used to derive an
// application key from a passphrase. The zero value is invalid; use
// DefaultArgon2Params.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultArgon2Params returns the suite-standard Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

// KeyBundle is the inner set of symmetric keys the datastore uses once
// unlocked: one key to encrypt/decrypt records, one to encrypt/decrypt any
// future wrapped keys. Both are generated once, at first Initialize, and
// survive every rebase untouched.
type KeyBundle struct {
	RecordKey []byte `json:"record_key"`
	WrapKey   []byte `json:"wrap_key"`
}

// GenerateKeyBundle creates a fresh KeyBundle from a cryptographically
// secure random source.
func GenerateKeyBundle() (*KeyBundle, error) {
	kb := &KeyBundle{
		RecordKey: make([]byte, KeySize),
		WrapKey:   make([]byte, KeySize),
	}
	if _, err := rand.Read(kb.RecordKey); err != nil {
		return nil, fmt.Errorf("crypto: generating record key: %w", err)
	}
	if _, err := rand.Read(kb.WrapKey); err != nil {
		return nil, fmt.Errorf("crypto: generating wrap key: %w", err)
	}
	return kb, nil
}

// Zero overwrites both keys in place. Callers still hold the slice headers
// after Zero returns; only the backing bytes are cleared.
func (kb *KeyBundle) Zero() {
	if kb == nil {
		return
	}
	Zero(kb.RecordKey)
	Zero(kb.WrapKey)
}

// Marshal serializes the bundle to JSON, the plaintext input to Seal when
// wrapping it under the application key.
func (kb *KeyBundle) Marshal() ([]byte, error) {
	return json.Marshal(kb)
}

// UnmarshalKeyBundle parses the JSON produced by Marshal.
func UnmarshalKeyBundle(data []byte) (*KeyBundle, error) {
	var kb KeyBundle
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("crypto: unmarshal key bundle: %w", err)
	}
	return &kb, nil
}

// Zero overwrites a byte slice with zeroes in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateSalt creates a fresh per-database passphrase salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: generating salt: %w", err)
	}
	return salt, nil
}

// DeriveAppKey derives a KeySize-byte application key from passphrase and
// salt using Argon2id under params.
func DeriveAppKey(passphrase string, salt []byte, params Argon2Params) []byte {
	return argon2.IDKey([]byte(passphrase), salt, params.Iterations, params.Memory, params.Parallelism, KeySize)
}

// DefaultAppKey returns the fixed, well-known key used when the caller
// supplies neither an explicit key nor a way to derive one. It offers no
// protection against an attacker with access to the backing store; hosts
// that care about confidentiality must supply an explicit key or a prompt.
func DefaultAppKey() []byte {
	return make([]byte, KeySize)
}

// PromptFunc resolves a passphrase on demand, e.g. by asking the user.
type PromptFunc func(ctx context.Context) (string, error)

// AppKeySource describes the inputs available for resolving the
// application key, in the priority order the vault applies them.
type AppKeySource struct {
	// ExplicitKey, if non-nil, is used verbatim (must be KeySize bytes).
	ExplicitKey []byte
	// Passphrase, if non-nil, is combined with Salt via Argon2id.
	Passphrase *string
	Salt       []byte
	Params     Argon2Params
	// Prompt is consulted if neither ExplicitKey nor Passphrase is set.
	Prompt PromptFunc
}

// ErrNoAppKey is returned by Resolve when no source yields a key and no
// default is requested.
var ErrNoAppKey = fmt.Errorf("crypto: application key could not be resolved")

// Resolve walks the AK resolution order from §4.3: explicit key, then
// passphrase+salt, then prompt, then (if useDefault) the fixed default key.
func Resolve(ctx context.Context, src AppKeySource, useDefault bool) ([]byte, error) {
	if len(src.ExplicitKey) > 0 {
		if len(src.ExplicitKey) != KeySize {
			return nil, fmt.Errorf("crypto: invalid explicit key size %d, want %d", len(src.ExplicitKey), KeySize)
		}
		key := make([]byte, KeySize)
		copy(key, src.ExplicitKey)
		return key, nil
	}

	if src.Passphrase != nil {
		if len(src.Salt) == 0 {
			return nil, fmt.Errorf("crypto: passphrase supplied without salt")
		}
		params := src.Params
		if params == (Argon2Params{}) {
			params = DefaultArgon2Params()
		}
		return DeriveAppKey(*src.Passphrase, src.Salt, params), nil
	}

	if src.Prompt != nil {
		passphrase, err := src.Prompt(ctx)
		if err != nil {
			return nil, fmt.Errorf("crypto: prompt failed: %w", err)
		}
		if passphrase == "" {
			if useDefault {
				return DefaultAppKey(), nil
			}
			return nil, ErrNoAppKey
		}
		if len(src.Salt) == 0 {
			return nil, fmt.Errorf("crypto: prompt passphrase supplied without salt")
		}
		params := src.Params
		if params == (Argon2Params{}) {
			params = DefaultArgon2Params()
		}
		return DeriveAppKey(passphrase, src.Salt, params), nil
	}

	if useDefault {
		return DefaultAppKey(), nil
	}
	return nil, ErrNoAppKey
}
