package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/chain"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

func (a *app) newEntryCmd() *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Create, read and search the entries of a chain",
	}

	var wf writeFlags
	createCmd := &cobra.Command{
		Use:   "create [chain-id]",
		Short: "Add an entry to a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := wf.request()
			if err != nil {
				return err
			}
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Entries().Create(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	wf.register(createCmd)

	var validateSig bool
	getCmd := &cobra.Command{
		Use:   "get [chain-id] [entry-hash]",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Entries().Get(cmd.Context(), args[0], args[1], chain.GetOptions{SignatureValidation: validateSig})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	getCmd.Flags().BoolVar(&validateSig, "validate", true, "validate the entry signature")

	edge := func(use, short string, last bool) *cobra.Command {
		var validate bool
		cmd := &cobra.Command{
			Use:   use + " [chain-id]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.newClient(cmd)
				if err != nil {
					return err
				}
				opts := chain.GetOptions{SignatureValidation: validate}
				get := c.Entries().First
				if last {
					get = c.Entries().Last
				}
				out, err := get(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				return printJSON(cmd, out)
			},
		}
		cmd.Flags().BoolVar(&validate, "validate", true, "validate the entry signature")
		return cmd
	}

	var listOpts net.ListOptions
	listCmd := &cobra.Command{
		Use:   "list [chain-id]",
		Short: "List the entries of a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Entries().List(cmd.Context(), args[0], listOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	addListFlags(listCmd, &listOpts)
	listCmd.Flags().StringSliceVar(&listOpts.Stages, "stage", nil, "only entries in these stages")

	var (
		searchIDs  []string
		searchOpts net.ListOptions
	)
	searchCmd := &cobra.Command{
		Use:   "search [chain-id]",
		Short: "Find entries of a chain by external ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.Entries().Search(cmd.Context(), args[0], searchIDs, searchOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	searchCmd.Flags().StringArrayVar(&searchIDs, "external-id", nil, "external id the entry must have (repeatable)")
	addListFlags(searchCmd, &searchOpts)

	entryCmd.AddCommand(
		createCmd,
		getCmd,
		edge("first", "Show the first entry of a chain", false),
		edge("last", "Show the latest entry of a chain", true),
		listCmd,
		searchCmd,
	)
	return entryCmd
}
