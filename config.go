package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/credvault/credvault/internal/crypto"
	"github.com/credvault/credvault/store"
)

// MetricFunc is the host-supplied telemetry hook. It is called after every
// successful mutating operation with method ("added", "updated" or
// "deleted"), the affected record's id, and the dotted-path field list
// (nil unless method is "updated" and at least one field changed).
type MetricFunc func(method, id string, fields *string)

// PromptFunc resolves a passphrase on demand, e.g. by asking the user.
// It is consulted when the application key cannot be resolved from an
// explicit key or a passphrase.
type PromptFunc = crypto.PromptFunc

// Config configures a Datastore. The zero value is valid: a Datastore
// opened with a zero Config uses an in-memory store and the fixed default
// application key, which offers no protection — see DefaultAppKeyWarning.
type Config struct {
	// Path is the filesystem location of the default embedded backing
	// store. Ignored if Store is set.
	Path string
	// Store is a caller-supplied backing store. Takes precedence over
	// Path; if both are zero, Open uses an in-memory store.
	Store store.Store
	// Salt is the passphrase-derivation salt. Required only when the
	// caller intends to unlock/initialize with a passphrase and no salt
	// has been persisted yet; otherwise it is read back from the store.
	Salt []byte
	// RecordMetric is the optional telemetry hook.
	RecordMetric MetricFunc
	// Prompt optionally resolves a passphrase when no explicit key or
	// passphrase is supplied.
	Prompt PromptFunc
	// Logger receives structured log lines. A nil Logger is replaced
	// with one that discards everything.
	Logger *slog.Logger
	// KDFParams overrides the default Argon2id tuning. Zero value means
	// use crypto.DefaultArgon2Params.
	KDFParams *crypto.Argon2Params
}

// DefaultAppKeyWarning documents the insecurity of the fallback key used
// when a caller supplies neither an explicit application key, a
// passphrase, nor a Prompt.
const DefaultAppKeyWarning = "vault: using fixed default application key; records are not protected at rest"

func (c Config) resolveStore() store.Store {
	if c.Store != nil {
		return c.Store
	}
	if c.Path != "" {
		return store.NewBoltStore(c.Path)
	}
	return store.NewMemStore()
}

func (c Config) resolveLogger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

func (c Config) resolveKDFParams() crypto.Argon2Params {
	if c.KDFParams != nil {
		return *c.KDFParams
	}
	return crypto.DefaultArgon2Params()
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Open constructs a Datastore from cfg and calls Prepare on it before
// returning, matching the "returns a prepared datastore instance"
// factory contract. The entry-point factory's remaining responsibilities
// (argument parsing, wiring a concrete Store, etc.) belong to the host.
func Open(ctx context.Context, cfg Config) (*Datastore, error) {
	d := newDatastore(cfg)
	if err := d.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("vault: open: %w", err)
	}
	return d, nil
}
