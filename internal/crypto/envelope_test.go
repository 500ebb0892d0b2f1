package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}

	plaintext := []byte(`{"title":"My Item"}`)

	envelope, err := Seal(plaintext, key)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if parts := strings.Split(envelope, "."); len(parts) != 5 {
		t.Fatalf("expected 5 dot-separated segments, got %d", len(parts))
	}

	got, err := Open(envelope, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestOpen_RejectsTamperedTag(t *testing.T) {
	key := make([]byte, KeySize)
	envelope, err := Seal([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	parts := strings.Split(envelope, ".")
	tampered := strings.Join([]string{parts[0], parts[1], parts[2], parts[3], "AAAAAAAAAAAAAAAAAAAAAA"}, ".")

	if _, err := Open(tampered, key); err == nil {
		t.Fatal("expected authentication failure on tampered tag")
	}
}

func TestOpen_RejectsWrongKey(t *testing.T) {
	key := make([]byte, KeySize)
	other := make([]byte, KeySize)
	other[0] = 1

	envelope, err := Seal([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := Open(envelope, other); err == nil {
		t.Fatal("expected authentication failure with wrong key")
	}
}

func TestOpen_RejectsMalformedEnvelope(t *testing.T) {
	key := make([]byte, KeySize)
	if _, err := Open("not-an-envelope", key); err == nil {
		t.Fatal("expected error on malformed envelope")
	}
}
