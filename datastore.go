package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/credvault/credvault/internal/crypto"
	"github.com/credvault/credvault/store"
	"github.com/credvault/credvault/vaulterr"
)

// State is one of the three lifecycle states a Datastore can be in.
type State int

const (
	StateUninitialized State = iota
	StateLocked
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

const (
	keyBlobKey = "keys"
	saltKey    = "salt"
	itemPrefix = "items/"
)

// Datastore is the encrypted credential vault's state machine. Every
// public method is safe to call concurrently: calls are serialized onto
// the instance's internal actor, so at most one operation ever touches
// the backing store or the cached key bundle at a time.
type Datastore struct {
	act     *actor
	backing store.Store
	logger  *slog.Logger
	metric  MetricFunc
	prompt  PromptFunc
	kdf     crypto.Argon2Params

	// Fields below are actor-owned: read and written only from inside
	// closures submitted via d.act.submit, never directly.
	state State
	kb    *crypto.KeyBundle
	salt  []byte
}

func newDatastore(cfg Config) *Datastore {
	return &Datastore{
		act:     newActor(),
		backing: cfg.resolveStore(),
		logger:  cfg.resolveLogger(),
		metric:  cfg.RecordMetric,
		prompt:  cfg.Prompt,
		kdf:     cfg.resolveKDFParams(),
		state:   StateUninitialized,
		salt:    cfg.Salt,
	}
}

// Close zeroes and drops the cached key bundle (if the instance is
// Unlocked), closes the backing store, and stops the datastore's actor.
func (d *Datastore) Close(ctx context.Context) error {
	var closeErr error
	_ = d.act.submit(ctx, func() {
		d.kb.Zero()
		d.kb = nil
		closeErr = d.backing.Close(ctx)
	})
	d.act.close()
	return closeErr
}

// State returns the datastore's current lifecycle state.
func (d *Datastore) State(ctx context.Context) (State, error) {
	var s State
	err := d.act.submit(ctx, func() { s = d.state })
	return s, err
}

// Prepare opens the backing store and detects whether an Encrypted Key
// Blob is already present, setting the initial state accordingly. It is
// idempotent: calling Prepare again re-checks the same condition.
func (d *Datastore) Prepare(ctx context.Context) error {
	var outErr error
	err := d.act.submit(ctx, func() {
		if err := d.backing.Open(ctx); err != nil {
			d.logger.Error("vault: opening backing store failed", "error", err)
			outErr = vaulterr.Wrap(vaulterr.ReasonStore, "opening backing store failed", err)
			return
		}

		_, found, err := d.backing.Get(ctx, keyBlobKey)
		if err != nil {
			d.logger.Error("vault: reading key blob failed", "error", err)
			outErr = vaulterr.Wrap(vaulterr.ReasonStore, "reading key blob failed", err)
			return
		}

		if salt, saltFound, err := d.backing.Get(ctx, saltKey); err == nil && saltFound {
			d.salt = salt
		}

		if found {
			d.state = StateLocked
			d.logger.Debug("vault: prepared", "state", d.state.String())
			return
		}
		d.state = StateUninitialized
		d.logger.Debug("vault: prepared", "state", d.state.String())
	})
	if err != nil {
		return err
	}
	return outErr
}

// InitializeOptions configures Initialize.
type InitializeOptions struct {
	// AppKey, if set, is used verbatim as the raw application key.
	AppKey []byte
	// Passphrase, if set, is combined with the database's salt via
	// Argon2id to derive the application key.
	Passphrase *string
	// Rebase re-wraps the existing key bundle under the resolved
	// application key instead of generating a new one. Requires the
	// datastore to be Unlocked.
	Rebase bool
}

// Initialize creates the key bundle (first call) or, with Rebase set,
// re-wraps the existing one under a new application key. See §4.1 of the
// vault's rebase algorithm.
func (d *Datastore) Initialize(ctx context.Context, opts InitializeOptions) error {
	var outErr error
	err := d.act.submit(ctx, func() {
		switch {
		case d.state == StateUninitialized:
			outErr = d.initializeFresh(ctx, opts)
		case d.state == StateUnlocked && opts.Rebase:
			outErr = d.initializeRebase(ctx, opts)
		default:
			outErr = vaulterr.New(vaulterr.ReasonInitialized, "already initialized")
		}
	})
	if err != nil {
		return err
	}
	return outErr
}

func (d *Datastore) initializeFresh(ctx context.Context, opts InitializeOptions) error {
	if err := d.ensureSalt(ctx); err != nil {
		return err
	}

	kb, err := crypto.GenerateKeyBundle()
	if err != nil {
		return vaulterr.Wrap(vaulterr.ReasonCrypto, "generating key bundle failed", err)
	}

	if err := d.wrapAndPersist(ctx, kb, opts); err != nil {
		kb.Zero()
		return err
	}

	kb.Zero()
	d.state = StateLocked
	d.logger.Debug("vault: initialized", "rebase", false)
	return nil
}

func (d *Datastore) initializeRebase(ctx context.Context, opts InitializeOptions) error {
	if d.kb == nil {
		return vaulterr.New(vaulterr.ReasonCrypto, "no key bundle cached to rebase")
	}

	if err := d.wrapAndPersist(ctx, d.kb, opts); err != nil {
		return err
	}

	d.kb.Zero()
	d.kb = nil
	d.state = StateLocked
	d.logger.Debug("vault: initialized", "rebase", true)
	return nil
}

func (d *Datastore) wrapAndPersist(ctx context.Context, kb *crypto.KeyBundle, opts InitializeOptions) error {
	appKey, err := d.resolveAppKey(ctx, opts.AppKey, opts.Passphrase)
	if err != nil {
		return err
	}
	defer crypto.Zero(appKey)

	plaintext, err := kb.Marshal()
	if err != nil {
		return vaulterr.Wrap(vaulterr.ReasonCrypto, "marshaling key bundle failed", err)
	}

	envelope, err := crypto.Seal(plaintext, appKey)
	if err != nil {
		return vaulterr.Wrap(vaulterr.ReasonCrypto, "wrapping key bundle failed", err)
	}

	if err := d.backing.Put(ctx, keyBlobKey, []byte(envelope)); err != nil {
		return vaulterr.Wrap(vaulterr.ReasonStore, "persisting key blob failed", err)
	}
	return nil
}

func (d *Datastore) ensureSalt(ctx context.Context) error {
	if len(d.salt) > 0 {
		return nil
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return vaulterr.Wrap(vaulterr.ReasonCrypto, "generating salt failed", err)
	}
	if err := d.backing.Put(ctx, saltKey, salt); err != nil {
		return vaulterr.Wrap(vaulterr.ReasonStore, "persisting salt failed", err)
	}
	d.salt = salt
	return nil
}

func (d *Datastore) resolveAppKey(ctx context.Context, explicit []byte, passphrase *string) ([]byte, error) {
	key, err := crypto.Resolve(ctx, crypto.AppKeySource{
		ExplicitKey: explicit,
		Passphrase:  passphrase,
		Salt:        d.salt,
		Params:      d.kdf,
		Prompt:      d.prompt,
	}, true)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.ReasonMissingAppKey, "resolving application key failed", err)
	}
	return key, nil
}

// UnlockOptions configures Unlock.
type UnlockOptions struct {
	// AppKey, if set, is used verbatim as the raw application key.
	AppKey []byte
	// Passphrase, if set, is combined with the database's salt via
	// Argon2id to derive the application key.
	Passphrase *string
}

// Unlock unwraps the Encrypted Key Blob under the resolved application
// key, caches the key bundle, and transitions to Unlocked.
func (d *Datastore) Unlock(ctx context.Context, opts UnlockOptions) error {
	var outErr error
	err := d.act.submit(ctx, func() {
		if d.state == StateUnlocked {
			return
		}
		if d.state == StateUninitialized {
			outErr = vaulterr.New(vaulterr.ReasonLocked, "datastore is not initialized")
			return
		}

		appKey, resolveErr := d.resolveAppKey(ctx, opts.AppKey, opts.Passphrase)
		if resolveErr != nil {
			outErr = resolveErr
			return
		}
		defer crypto.Zero(appKey)

		blob, found, getErr := d.backing.Get(ctx, keyBlobKey)
		if getErr != nil {
			outErr = vaulterr.Wrap(vaulterr.ReasonStore, "reading key blob failed", getErr)
			return
		}
		if !found {
			outErr = vaulterr.New(vaulterr.ReasonCrypto, "no key blob present")
			return
		}

		plaintext, openErr := crypto.Open(string(blob), appKey)
		if openErr != nil {
			outErr = vaulterr.Wrap(vaulterr.ReasonCrypto, "unwrapping key bundle failed", openErr)
			return
		}

		kb, unmarshalErr := crypto.UnmarshalKeyBundle(plaintext)
		if unmarshalErr != nil {
			outErr = vaulterr.Wrap(vaulterr.ReasonCrypto, "parsing key bundle failed", unmarshalErr)
			return
		}

		d.kb = kb
		d.state = StateUnlocked
		d.logger.Debug("vault: unlocked")
	})
	if err != nil {
		return err
	}
	return outErr
}

// Lock drops the cached key bundle and transitions to Locked. Idempotent.
func (d *Datastore) Lock(ctx context.Context) error {
	return d.act.submit(ctx, func() {
		if d.state != StateUnlocked {
			return
		}
		d.kb.Zero()
		d.kb = nil
		d.state = StateLocked
		d.logger.Debug("vault: locked")
	})
}

// Reset deletes the key blob, the salt, and every record blob, returning
// the datastore to Uninitialized. Reset never fails on "nothing to
// delete"; it is safe to call from any state.
func (d *Datastore) Reset(ctx context.Context) error {
	var outErr error
	err := d.act.submit(ctx, func() {
		d.kb.Zero()
		d.kb = nil

		if err := d.backing.Clear(ctx); err != nil {
			outErr = vaulterr.Wrap(vaulterr.ReasonStore, "clearing backing store failed", err)
			return
		}
		d.salt = nil
		d.state = StateUninitialized
		d.logger.Debug("vault: reset")
	})
	if err != nil {
		return err
	}
	return outErr
}

func recordKey(id string) string {
	return fmt.Sprintf("%s%s", itemPrefix, id)
}
