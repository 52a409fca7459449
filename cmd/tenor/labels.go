package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tenor/pkg/core"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the sentiment labels from most negative to most positive",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range core.Labels() {
			fmt.Printf("%d\t%s\n", l.Rank(), l)
		}
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
