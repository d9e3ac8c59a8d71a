package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/accelbuf/cmd/bench"
	"github.com/ValentinKolb/accelbuf/cmd/encode"
	"github.com/ValentinKolb/accelbuf/cmd/inspect"
	"github.com/ValentinKolb/accelbuf/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "accelbuf",
		Short: "tag-based binary serialization",
		Long: fmt.Sprintf(`accelbuf (v%s)

A compact, tag-based binary serialization format written in Go.
Every field is written as an index byte, a self-describing tag
byte and a payload that only uses the bytes its value needs.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of accelbuf",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("accelbuf v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(encode.EncodeCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupCodecFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
