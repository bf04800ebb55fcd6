package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sendcheck/internal/ir"
	"sendcheck/internal/irfile"
)

var dumpValidate bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpValidate, "validate", true, "validate module structure before printing")
}

var dumpCmd = &cobra.Command{
	Use:   "dump <module.irx>",
	Short: "Print a compiled module in textual form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := irfile.Load(args[0])
		if err != nil {
			return err
		}
		if dumpValidate {
			if err := ir.Validate(m); err != nil {
				return fmt.Errorf("module %s failed validation: %w", m.Name, err)
			}
		}
		fmt.Fprint(os.Stdout, ir.Print(m))
		return nil
	},
}
