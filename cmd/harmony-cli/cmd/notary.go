package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/event"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/example/notary"
)

func (a *app) newNotaryCmd() *cobra.Command {
	var hashType string
	cmd := &cobra.Command{
		Use:   "notary [document]",
		Short: "Run the notary sample workflow against a document",
		Long: `Create an identity, sign a customer chain and a document entry with it,
read both back with signature validation, and rotate the identity keys.

Progress is printed to stderr; the full result is printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := utils.ParseHashType(hashType)
			if err != nil {
				return err
			}
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}

			bus := event.NewBus(nil, 1)
			defer bus.Close()
			bus.SubscribeAll(func(e event.Event) {
				if e.Step == "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", e.Type)
					return
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%-16s %s\n", e.Type, e.Step)
			})

			res, err := notary.NewRunner(c, notary.WithBus(bus), notary.WithHashType(t)).
				Run(cmd.Context(), NormalizePath(args[0]))
			if err != nil {
				return err
			}
			bus.WaitForHandlers()
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&hashType, "hash-type", string(utils.HashSHA256), "document digest: sha256, blake3 or blake2b")
	return cmd
}
