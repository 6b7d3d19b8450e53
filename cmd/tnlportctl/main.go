// Command tnlportctl is a small inspection tool over the tunnel-port
// core: it builds an in-process fixture registry and lets you list its
// ports, dump bucket occupancy, and resolve a synthetic received flow
// against it. It never touches a real datapath.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tnlportctl",
		Short:         "Inspect the tunnel-port demux/encapsulation core against a fixture registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(listCmd())
	cmd.AddCommand(bucketStatsCmd())
	cmd.AddCommand(resolveCmd())
	return cmd
}
