package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/identity"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

func (a *app) newIdentityCmd() *cobra.Command {
	identityCmd := &cobra.Command{
		Use:   "identity",
		Short: "Create and inspect identities",
	}
	identityCmd.AddCommand(a.newIdentityCreateCmd(), a.newIdentityGetCmd(), a.newIdentityKeysCmd())
	return identityCmd
}

func (a *app) newIdentityCreateCmd() *cobra.Command {
	var (
		names []string
		keys  []string
		cb    callbackFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an identity chain",
		Long: `Create an identity chain named by one or more --name values.

Without --key, three key pairs are generated locally and printed with the
response under "key_pairs".

Example:
  harmony-cli identity create --name NotarySimulation --name 2019-01-18`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			req := identity.CreateRequest{
				Name:           names,
				Keys:           keys,
				CallbackURL:    cb.url,
				CallbackStages: cb.stages,
			}
			out, err := c.Identities().CreateWithGeneratedKeys(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringArrayVar(&names, "name", nil, "name of the identity (repeatable)")
	cmd.Flags().StringArrayVar(&keys, "key", nil, "public key in idpub format (repeatable, highest priority first)")
	cb.register(cmd)
	return cmd
}

func (a *app) newIdentityGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [chain-id]",
		Short: "Show an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Identities().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func (a *app) newIdentityKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "List, inspect and replace the keys of an identity",
	}

	var listOpts net.ListOptions
	listCmd := &cobra.Command{
		Use:   "list [chain-id]",
		Short: "List the keys of an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Identities().Keys().List(cmd.Context(), args[0], listOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	addListFlags(listCmd, &listOpts)

	getCmd := &cobra.Command{
		Use:   "get [chain-id] [public-key]",
		Short: "Show one key of an identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Identities().Keys().Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}

	var (
		oldKey, newKey, signer string
		yes                    bool
		cb                     callbackFlags
	)
	replaceCmd := &cobra.Command{
		Use:   "replace [chain-id]",
		Short: "Replace a key of an identity",
		Long: `Replace --old with --new on an identity. The request is signed with
--signer-private-key, which must be a key of the same or higher priority.

Example:
  harmony-cli identity keys replace <chain-id> --old idpub... --new idpub... --signer-private-key idsec...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := identity.ReplaceRequest{
				ChainID:          args[0],
				OldPublicKey:     oldKey,
				NewPublicKey:     newKey,
				SignerPrivateKey: signer,
				CallbackURL:      cb.url,
				CallbackStages:   cb.stages,
			}
			if req.SignerPrivateKey == "" {
				if err := askPrivateKey(&req.SignerPrivateKey); err != nil {
					return err
				}
			}
			// Validate before asking for confirmation.
			if _, err := identity.BuildReplacePayload(req); err != nil {
				return err
			}

			if !yes {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Replace key %s on identity %s? The old key stops working once the replacement is anchored.", oldKey, args[0]),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Identities().Keys().Replace(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	replaceCmd.Flags().StringVar(&oldKey, "old", "", "public key to replace")
	replaceCmd.Flags().StringVar(&newKey, "new", "", "public key replacing it")
	replaceCmd.Flags().StringVar(&signer, "signer-private-key", "", "private key signing the request (prompted when empty)")
	replaceCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cb.register(replaceCmd)

	keysCmd.AddCommand(listCmd, getCmd, replaceCmd)
	return keysCmd
}

func askPrivateKey(dst *string) error {
	return survey.AskOne(&survey.Password{Message: "Signer private key (idsec...):"}, dst, survey.WithValidator(survey.Required))
}
