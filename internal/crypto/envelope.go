// Package crypto implements the vault's cryptographic core: application-key
// resolution, key-bundle generation, and the compact authenticated-
// encryption envelope shared by the key blob and every record blob.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// KeySize is the AES-256 key size in bytes, used for every symmetric key
// in the vault's key hierarchy.
const KeySize = 32

// nonceSize is the GCM standard nonce length.
const nonceSize = 12

// header is the envelope's protected header, mirroring a compact JWE
// protected header for a directly-used AES-256-GCM key.
type header struct {
	Alg string `json:"alg"`
	Enc string `json:"enc"`
}

var defaultHeader = header{Alg: "dir", Enc: "A256GCM"}

// Seal encrypts plaintext under key and returns the compact envelope text:
// five base64url segments joined by '.' — protected header, empty (no key
// wrapping is used, alg=dir), IV, ciphertext, authentication tag.
func Seal(plaintext, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("crypto: invalid key size %d, want %d", len(key), KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("crypto: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("crypto: new gcm: %w", err)
	}

	iv := make([]byte, nonceSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("crypto: generating iv: %w", err)
	}

	headerJSON, err := json.Marshal(defaultHeader)
	if err != nil {
		return "", fmt.Errorf("crypto: marshal header: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, headerJSON)
	ciphertext, tag := sealed[:len(sealed)-gcm.Overhead()], sealed[len(sealed)-gcm.Overhead():]

	return strings.Join([]string{
		b64(headerJSON),
		"",
		b64(iv),
		b64(ciphertext),
		b64(tag),
	}, "."), nil
}

// Open decrypts an envelope produced by Seal under key. A MAC failure or a
// malformed envelope both return a non-nil error; callers are responsible
// for classifying that as a crypto failure.
func Open(envelope string, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("crypto: invalid key size %d, want %d", len(key), KeySize)
	}

	parts := strings.Split(envelope, ".")
	if len(parts) != 5 {
		return nil, fmt.Errorf("crypto: malformed envelope: expected 5 segments, got %d", len(parts))
	}

	headerJSON, err := unb64(parts[0])
	if err != nil {
		return nil, fmt.Errorf("crypto: decoding header: %w", err)
	}
	if parts[1] != "" {
		return nil, fmt.Errorf("crypto: unsupported key-wrapping segment")
	}
	iv, err := unb64(parts[2])
	if err != nil {
		return nil, fmt.Errorf("crypto: decoding iv: %w", err)
	}
	ciphertext, err := unb64(parts[3])
	if err != nil {
		return nil, fmt.Errorf("crypto: decoding ciphertext: %w", err)
	}
	tag, err := unb64(parts[4])
	if err != nil {
		return nil, fmt.Errorf("crypto: decoding tag: %w", err)
	}

	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return nil, fmt.Errorf("crypto: parsing header: %w", err)
	}
	if hdr.Alg != "dir" || hdr.Enc != "A256GCM" {
		return nil, fmt.Errorf("crypto: unsupported algorithm suite %s/%s", hdr.Alg, hdr.Enc)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", err)
	}
	if len(iv) != nonceSize {
		return nil, fmt.Errorf("crypto: invalid iv size %d", len(iv))
	}

	sealed := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := gcm.Open(nil, iv, sealed, headerJSON)
	if err != nil {
		return nil, fmt.Errorf("crypto: authentication failed: %w", err)
	}
	return plaintext, nil
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func unb64(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
