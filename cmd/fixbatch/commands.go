package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/fixbatch/internal/check"
	"github.com/backmassage/fixbatch/internal/config"
	"github.com/backmassage/fixbatch/internal/logging"
)

func newCheckCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [<data_dir> <output_dir>]",
		Short: "Verify the classifier, directories and PNG rendering",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags, args, true)
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			if !check.RunCheck(&cfg, log) {
				return errReported
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fixbatch version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "fixbatch %s (%s)\n", version, commit)
			return err
		},
	}
}
