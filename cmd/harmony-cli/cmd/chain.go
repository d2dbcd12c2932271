package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/chain"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

// writeFlags are shared by chain create and entry create.
type writeFlags struct {
	content     string
	externalIDs []string
	signerChain string
	signerKey   string
	cb          callbackFlags
}

func (w *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.content, "content", "", "record content")
	cmd.Flags().StringArrayVar(&w.externalIDs, "external-id", nil, "external id (repeatable)")
	cmd.Flags().StringVar(&w.signerChain, "signer-chain-id", "", "identity chain id signing the record")
	cmd.Flags().StringVar(&w.signerKey, "signer-private-key", "", "identity private key signing the record (prompted when --signer-chain-id is set)")
	w.cb.register(cmd)
}

func (w *writeFlags) request() (chain.WriteRequest, error) {
	req := chain.WriteRequest{
		Content:          w.content,
		ExternalIDs:      w.externalIDs,
		SignerChainID:    w.signerChain,
		SignerPrivateKey: w.signerKey,
		CallbackURL:      w.cb.url,
		CallbackStages:   w.cb.stages,
	}
	if req.SignerChainID != "" && req.SignerPrivateKey == "" {
		if err := askPrivateKey(&req.SignerPrivateKey); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (a *app) newChainCmd() *cobra.Command {
	chainCmd := &cobra.Command{
		Use:   "chain",
		Short: "Create, read and search chains",
	}

	var wf writeFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a chain",
		Long: `Create a chain. With --signer-chain-id the chain is signed by that
identity and the signature fields are prepended to the external ids.

Example:
  harmony-cli chain create --content "customer record" --external-id CustomerChain \
    --external-id cust123 --signer-chain-id <identity> --signer-private-key idsec...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := wf.request()
			if err != nil {
				return err
			}
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Chains().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	wf.register(createCmd)

	var validateSig bool
	getCmd := &cobra.Command{
		Use:   "get [chain-id]",
		Short: "Show a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Chains().Get(cmd.Context(), args[0], chain.GetOptions{SignatureValidation: validateSig})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	getCmd.Flags().BoolVar(&validateSig, "validate", true, "validate the chain signature")

	var listOpts net.ListOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Chains().List(cmd.Context(), listOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	addListFlags(listCmd, &listOpts)
	listCmd.Flags().StringSliceVar(&listOpts.Stages, "stage", nil, "only chains in these stages")

	var (
		searchIDs  []string
		searchOpts net.ListOptions
	)
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Find chains by external ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Chains().Search(cmd.Context(), searchIDs, searchOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	searchCmd.Flags().StringArrayVar(&searchIDs, "external-id", nil, "external id the chain must have (repeatable)")
	addListFlags(searchCmd, &searchOpts)

	chainCmd.AddCommand(createCmd, getCmd, listCmd, searchCmd)
	return chainCmd
}
