package main

import (
	"fmt"
	"os"

	"github.com/bazario/smart-recs/cmd/recsctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "recsctl",
		Short: "Operational tool for the smart recommendations service",
		Long:  "CLI tool for running the recommendation pipeline and recording behavior events directly against the stores",
	}

	rootCmd.AddCommand(commands.NewRecommendCmd())
	rootCmd.AddCommand(commands.NewTrackCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
