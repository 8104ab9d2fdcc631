package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/itsatony/go-htmlflow"
	"github.com/spf13/cobra"
)

func listCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameList,
		Short: "List the sample views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCatalog(htmlflow.NewEngine())
			if err != nil {
				return newExitError(ExitCodeError, ErrMsgBuildViewsFailed, err)
			}
			for _, s := range c.samples {
				fmt.Fprintf(stdout, FmtListEntry, s.name, s.description)
			}
			return nil
		},
	}
}

func versionCmd(stdout io.Writer) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(stdout, htmlflow.Version)
				return
			}
			fmt.Fprintf(stdout, FmtVersion, CLIName, htmlflow.Version, runtime.Version())
		},
	}

	cmd.Flags().BoolVarP(&short, FlagShort, FlagShortShort, false, "print only the version number")

	return cmd
}
