// Copyright 2016 Aleksandr Demakin. All rights reserved.

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/nxgtw/go-msgchan/internal/cmd.Version=...".
var Version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "chanctl %s %s/%s\n", Version, runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
