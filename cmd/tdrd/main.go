package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/licitia/tdranalyzer/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tdrd",
		Short: "TDR analysis daemon and CLI",
		Long:  "TDR analysis daemon for running the API server and analyzing procurement documents",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.AnalyzeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
