package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

// NormalizePath expands environment variables and a leading ~.
func NormalizePath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := codec.JSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func addListFlags(cmd *cobra.Command, opts *net.ListOptions) {
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of results")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
}

type callbackFlags struct {
	url    string
	stages []string
}

func (c *callbackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.url, "callback-url", "", "URL notified as the record progresses")
	cmd.Flags().StringSliceVar(&c.stages, "callback-stage", nil, "stages that trigger the callback (replicated, factom, anchored)")
}
