// Package cmd implements the harmony-cli commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
)

const envPrefix = "HARMONY"

type versionInfo struct {
	version string
	commit  string
	built   string
}

// app holds the global flags of one command tree.
type app struct {
	cfgFile string
	baseURL string
	appID   string
	appKey  string
	debug   bool
	version versionInfo
}

// Execute builds the command tree and runs it against os.Args.
func Execute(ver, commit, built string) error {
	root := newRootCmd(versionInfo{version: ver, commit: commit, built: built})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

func newRootCmd(v versionInfo) *cobra.Command {
	a := &app{version: v}

	root := &cobra.Command{
		Use:   "harmony-cli",
		Short: "Command line client for the Harmony Connect API",
		Long: `harmony-cli talks to the Harmony Connect API.

It can:
- Generate identity key pairs locally
- Create identities and rotate their keys
- Write signed chains and entries and validate their signatures
- Run the notary sample workflow against a document

Credentials are read from the config file, HARMONY_* environment
variables, or the --base-url, --app-id and --app-key flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if a.debug {
				level = "debug"
			}
			logtrace.Setup("harmony-cli", "dev", level)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logtrace.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "~/.harmony/config.yml", "config file")
	pf.StringVar(&a.baseURL, "base-url", "", "API base URL")
	pf.StringVar(&a.appID, "app-id", "", "application id")
	pf.StringVar(&a.appKey, "app-key", "", "application key")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.newVersionCmd(),
		a.newKeysCmd(),
		a.newHashCmd(),
		a.newInfoCmd(),
		a.newIdentityCmd(),
		a.newChainCmd(),
		a.newEntryCmd(),
		a.newNotaryCmd(),
		a.newConfigCmd(),
	)
	return root
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "harmony-cli Version: %s\n", a.version.version)
			fmt.Fprintf(out, "Git Commit: %s\n", a.version.commit)
			fmt.Fprintf(out, "Build Time: %s\n", a.version.built)
		},
	}
}
