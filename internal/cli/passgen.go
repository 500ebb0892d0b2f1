package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/credvault/credvault/internal/clipboard"
	"github.com/credvault/credvault/internal/crypto"
)

type passgenOptions struct {
	length  int
	words   int
	charset string
	copy    bool
}

var passgenCmd = newPassgenCommand()

func newPassgenCommand() *cobra.Command {
	opts := &passgenOptions{length: 20, charset: string(crypto.CharsetAlnumSym)}

	cmd := &cobra.Command{
		Use:   "passgen",
		Short: "Generate a secure password or Diceware passphrase",
		Long: `Generate secure passwords using configurable character sets or
Diceware-style passphrases, with optional clipboard support.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPassgen(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.length, "length", opts.length, "password length in characters")
	cmd.Flags().IntVar(&opts.words, "words", 0, "number of words for a Diceware passphrase")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the generated value to the clipboard")
	cmd.Flags().StringVar(&opts.charset, "charset", opts.charset, "character set: alpha|alnum|alnumsym")

	return cmd
}

func runPassgen(cmd *cobra.Command, opts *passgenOptions) error {
	var secret string

	if opts.words > 0 {
		words, err := crypto.GenerateDiceware(opts.words)
		if err != nil {
			return fmt.Errorf("generating passphrase: %w", err)
		}
		secret = strings.Join(words, " ")
	} else {
		charset := crypto.Charset(strings.ToLower(opts.charset))
		password, err := crypto.GeneratePassword(opts.length, charset)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		secret = password
	}

	if !opts.copy {
		fmt.Fprintln(cmd.OutOrStdout(), secret)
		return nil
	}

	ttl := 30 * time.Second
	if hostCfg != nil && hostCfg.ClipboardTTL > 0 {
		ttl = hostCfg.ClipboardTTL
	}
	if err := clipboard.CopyWithTimeout(secret, ttl); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated value copied to clipboard (clears in %s)\n", ttl)
	return nil
}
