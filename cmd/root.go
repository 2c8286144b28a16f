package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dStruct/cmd/perf"
	"github.com/ValentinKolb/dStruct/cmd/structs"
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dstruct",
		Short: "Redis-like data structures on a plain key-value store",
		Long: fmt.Sprintf(`dStruct (v%s)

Lists, queues, sets, sorted sets and hashes on top of a key-value store that
only supports single key operations. Multi-key operations run as locked
transactions with rollback.

Every flag can also be set via environment variables in the format
DSTRUCT_<flag> (e.g. DSTRUCT_BACKEND=sqlite) or in a .env file.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dStruct",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dStruct v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	util.SetupGlobalFlags(RootCmd)

	RootCmd.AddCommand(structs.Commands...)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
