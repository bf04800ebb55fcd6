package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sendcheck/internal/diag"
	"sendcheck/internal/driver"
	"sendcheck/internal/source"
)

var (
	checkUIFlag    string
	checkStrict    bool
	checkJobs      int
	checkFormat    string
	checkWithNotes bool
)

func init() {
	checkCmd.Flags().StringVar(&checkUIFlag, "ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat unsupported patterns as internal errors")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel analysis workers (0 = number of CPUs)")
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "diagnostics format (pretty|short)")
	checkCmd.Flags().BoolVar(&checkWithNotes, "with-notes", true, "include notes in short output")
}

var checkCmd = &cobra.Command{
	Use:   "check <module.irx>",
	Short: "Analyze a compiled module for isolation violations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cfg, err := driver.ResolveConfig(filepath.Dir(path))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict = checkStrict
		}
		if cmd.Flags().Changed("jobs") {
			cfg.Jobs = checkJobs
		}
		if maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err == nil && maxDiags > 0 {
			cfg.MaxDiagnostics = maxDiags
		}

		switch checkFormat {
		case "pretty", "short":
		default:
			return fmt.Errorf("unknown format: %s", checkFormat)
		}

		mode, err := readUIMode(checkUIFlag)
		if err != nil {
			return err
		}

		var result *driver.Result
		if shouldUseTUI(mode) && checkFormat == "pretty" {
			result, err = runCheckWithUI(cmd.Context(), filepath.Base(path), path, cfg)
		} else {
			result, err = driver.CheckFile(cmd.Context(), path, cfg, nil)
		}
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}

		files := source.NewTable()
		if result.Module != nil {
			for _, p := range result.Module.Files {
				files.Add(p)
			}
		}

		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

		switch checkFormat {
		case "pretty":
			diag.WritePretty(os.Stdout, result.Bag.Items(), files, useColor)
		case "short":
			if output := diag.FormatShortDiagnostics(result.Bag.Items(), files, checkWithNotes); output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		}

		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(os.Stdout, "checked %d functions: %d findings\n",
				result.FuncsAnalyzed, result.Bag.Len())
		}

		if result.Bag.HasErrors() {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("found isolation violations")
		}
		return nil
	},
}
