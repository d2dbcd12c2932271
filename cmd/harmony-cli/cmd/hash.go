package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
)

func (a *app) newHashCmd() *cobra.Command {
	var hashType string
	cmd := &cobra.Command{
		Use:   "hash [file]",
		Short: "Print the digest of a document",
		Long: `Print the hex digest of a file, as stored in a notarization entry.

Example:
  harmony-cli hash whitepaper.pdf --type blake3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := utils.ParseHashType(hashType)
			if err != nil {
				return err
			}
			h, err := utils.HashFileHex(NormalizePath(args[0]), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", h, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&hashType, "type", string(utils.HashSHA256), "digest: sha256, blake3 or blake2b")
	return cmd
}
