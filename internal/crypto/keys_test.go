package crypto

import (
	"bytes"
	"context"
	"testing"
)

func TestGenerateSalt_Unique(t *testing.T) {
	s1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	s2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	if len(s1) != SaltSize {
		t.Errorf("expected salt size %d, got %d", SaltSize, len(s1))
	}
	if bytes.Equal(s1, s2) {
		t.Error("two generated salts should not be equal")
	}
}

func TestDeriveAppKey_Deterministic(t *testing.T) {
	salt := make([]byte, SaltSize)
	params := Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1}

	k1 := DeriveAppKey("correct horse battery staple", salt, params)
	k2 := DeriveAppKey("correct horse battery staple", salt, params)
	k3 := DeriveAppKey("wrong passphrase", salt, params)

	if !bytes.Equal(k1, k2) {
		t.Error("same passphrase and salt should derive the same key")
	}
	if bytes.Equal(k1, k3) {
		t.Error("different passphrases should derive different keys")
	}
	if len(k1) != KeySize {
		t.Errorf("expected key size %d, got %d", KeySize, len(k1))
	}
}

func TestGenerateKeyBundle_Unique(t *testing.T) {
	kb1, err := GenerateKeyBundle()
	if err != nil {
		t.Fatalf("GenerateKeyBundle failed: %v", err)
	}
	kb2, err := GenerateKeyBundle()
	if err != nil {
		t.Fatalf("GenerateKeyBundle failed: %v", err)
	}

	if bytes.Equal(kb1.RecordKey, kb2.RecordKey) {
		t.Error("record keys across bundles should differ")
	}
	if bytes.Equal(kb1.WrapKey, kb2.WrapKey) {
		t.Error("wrap keys across bundles should differ")
	}
}

func TestKeyBundle_MarshalRoundTrip(t *testing.T) {
	kb, err := GenerateKeyBundle()
	if err != nil {
		t.Fatalf("GenerateKeyBundle failed: %v", err)
	}

	data, err := kb.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	got, err := UnmarshalKeyBundle(data)
	if err != nil {
		t.Fatalf("UnmarshalKeyBundle failed: %v", err)
	}

	if !bytes.Equal(got.RecordKey, kb.RecordKey) || !bytes.Equal(got.WrapKey, kb.WrapKey) {
		t.Error("unmarshaled bundle does not match original")
	}
}

func TestKeyBundle_Zero(t *testing.T) {
	kb, err := GenerateKeyBundle()
	if err != nil {
		t.Fatalf("GenerateKeyBundle failed: %v", err)
	}
	kb.Zero()

	for _, b := range kb.RecordKey {
		if b != 0 {
			t.Fatal("record key not zeroed")
		}
	}
	for _, b := range kb.WrapKey {
		if b != 0 {
			t.Fatal("wrap key not zeroed")
		}
	}
}

func TestResolve_ExplicitKeyTakesPriority(t *testing.T) {
	explicit := make([]byte, KeySize)
	explicit[0] = 7
	passphrase := "ignored"

	key, err := Resolve(context.Background(), AppKeySource{
		ExplicitKey: explicit,
		Passphrase:  &passphrase,
		Salt:        make([]byte, SaltSize),
	}, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(key, explicit) {
		t.Error("expected explicit key to be used verbatim")
	}
}

func TestResolve_PassphraseDerivesKey(t *testing.T) {
	passphrase := "s3cr3t"
	salt := make([]byte, SaltSize)

	key, err := Resolve(context.Background(), AppKeySource{
		Passphrase: &passphrase,
		Salt:       salt,
		Params:     Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1},
	}, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := DeriveAppKey(passphrase, salt, Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1})
	if !bytes.Equal(key, want) {
		t.Error("Resolve did not derive the expected key")
	}
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	key, err := Resolve(context.Background(), AppKeySource{}, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(key, DefaultAppKey()) {
		t.Error("expected default application key")
	}
}

func TestResolve_ErrorsWithoutAnySource(t *testing.T) {
	_, err := Resolve(context.Background(), AppKeySource{}, false)
	if err != ErrNoAppKey {
		t.Fatalf("expected ErrNoAppKey, got %v", err)
	}
}

func TestResolve_PromptYieldingEmptyUsesDefault(t *testing.T) {
	key, err := Resolve(context.Background(), AppKeySource{
		Prompt: func(ctx context.Context) (string, error) { return "", nil },
	}, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(key, DefaultAppKey()) {
		t.Error("expected default application key when prompt yields empty passphrase")
	}
}
