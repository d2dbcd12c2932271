package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
)

func (a *app) newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Work with identity key pairs locally",
	}

	var count int
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate identity key pairs",
		Long: `Generate ed25519 key pairs in the idpub/idsec format.

Nothing is sent to the API. Keep the private keys safe: they are the only
way to sign records or rotate keys for an identity.

Example:
  harmony-cli keys generate --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logtrace.CtxWithOrigin(logtrace.CtxWithCorrelationID(cmd.Context(), ""), logtrace.ValueCLI)
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			pairs, err := idkey.GenerateKeyPairs(count)
			if err != nil {
				return fmt.Errorf("failed to generate key pairs: %w", err)
			}
			logtrace.Info(ctx, "Key pairs generated", logtrace.Fields{"count": count})
			return printJSON(cmd, pairs)
		},
	}
	generateCmd.Flags().IntVar(&count, "count", 1, "number of key pairs")

	publicCmd := &cobra.Command{
		Use:   "public [idsec-key]",
		Short: "Print the public key of a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := idkey.PublicKeyFromPrivate(args[0])
			if err != nil {
				return fmt.Errorf("invalid private key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub)
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [key...]",
		Short: "Check the format and checksum of public keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := idkey.InvalidKeys(args)
			for _, k := range args {
				status := "valid"
				if idkey.ValidatePublicKey(k) != nil {
					status = "invalid"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, status)
			}
			if len(invalid) > 0 {
				return fmt.Errorf("%d invalid key(s)", len(invalid))
			}
			return nil
		},
	}

	keysCmd.AddCommand(generateCmd, publicCmd, validateCmd)
	return keysCmd
}
