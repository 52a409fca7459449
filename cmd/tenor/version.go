package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tenor"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tenor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tenor version %s\n", strings.TrimSpace(tenor.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
