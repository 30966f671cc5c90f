package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hrpc "github.com/NTPCPHARMACY/HRPC"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hrpc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hrpc version %s\n", hrpc.Version)
		},
	}
}
