package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formvalidator/internal/config"
	"github.com/vango-dev/formvalidator/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		yaml  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter project",
		Long: `Write a registration page and its rules to dir (default: the
working directory).

Examples:
  formvalidator init
  formvalidator init signup --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, yaml, force)
		},
	}

	cmd.Flags().BoolVar(&yaml, "yaml", false, "Write formvalidator.yaml instead of formvalidator.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, yaml, force bool) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if config.Exists(dir) && !force {
		return errors.New("E140").
			WithDetail("A configuration already exists in " + dir).
			WithSuggestion("Pass --force to overwrite it")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	cfg := demoConfig()
	name := config.ConfigFileName
	if yaml {
		name = config.YAMLFileName
	}
	if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
		return err
	}

	page := filepath.Join(dir, cfg.Page)
	if err := os.WriteFile(page, []byte(demoMarkup()), 0644); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	success(w, "Created %s", filepath.Join(dir, name))
	success(w, "Created %s", page)
	info(w, "Run: formvalidator serve")
	return nil
}
