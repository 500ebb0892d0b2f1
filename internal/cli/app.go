package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	vault "github.com/credvault/credvault"
	"github.com/credvault/credvault/internal/crypto"
	"github.com/credvault/credvault/internal/hostconfig"
)

var (
	cfgFile    string
	vaultPath  string
	passphrase string
	verbose    bool
	hostCfg    *hostconfig.Config
)

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/vaultcli/config.yaml"
}

func loadHostConfig() error {
	path := cfgFile
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := hostconfig.Load(path)
	if err != nil {
		return err
	}
	hostCfg = cfg
	if vaultPath == "" {
		vaultPath = cfg.VaultPath
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// promptPassphrase is handed to vault.Config as the Prompt callback, so
// Unlock/Initialize can resolve an application key interactively when
// the caller hasn't supplied one via --passphrase.
func promptPassphrase(ctx context.Context) (string, error) {
	return PromptPassword("Enter vault passphrase: ")
}

func kdfParamsOverride() *crypto.Argon2Params {
	if hostCfg == nil {
		return nil
	}
	p := crypto.Argon2Params{
		Memory:      hostCfg.KDF.Memory,
		Iterations:  hostCfg.KDF.Iterations,
		Parallelism: hostCfg.KDF.Parallelism,
	}
	if p == (crypto.Argon2Params{}) {
		return nil
	}
	return &p
}

// openDatastore opens the vault at vaultPath and calls Prepare.
func openDatastore(ctx context.Context) (*vault.Datastore, error) {
	return vault.Open(ctx, vault.Config{
		Path:   vaultPath,
		Logger: newLogger(),
		Prompt: promptPassphrase,
		KDFParams: kdfParamsOverride(),
	})
}

func initOptsFor(pass string) vault.InitializeOptions {
	return vault.InitializeOptions{Passphrase: &pass}
}

// openUnlocked opens the vault and ensures it is Unlocked, resolving the
// application key from --passphrase if given, otherwise via Prompt.
func openUnlocked(ctx context.Context) (*vault.Datastore, error) {
	d, err := openDatastore(ctx)
	if err != nil {
		return nil, err
	}

	state, err := d.State(ctx)
	if err != nil {
		return nil, err
	}
	if state == vault.StateUninitialized {
		return nil, fmt.Errorf("vault at %s is not initialized, run 'vaultcli init' first", vaultPath)
	}
	if state == vault.StateUnlocked {
		return d, nil
	}

	opts := vault.UnlockOptions{}
	if passphrase != "" {
		opts.Passphrase = &passphrase
	}
	if err := d.Unlock(ctx, opts); err != nil {
		return nil, err
	}
	return d, nil
}
