package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/altar-backend/internal/app"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ritualctl build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := app.Build()
			return opts.printer(cmd).print(info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "ritualctl %s\n", info)
				return err
			})
		},
	}
}
