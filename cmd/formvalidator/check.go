package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formvalidator/internal/config"
	"github.com/vango-dev/formvalidator/internal/errors"
	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

type checkOptions struct {
	configPath string
	page       string
	set        []string
	check      []string
	attach     []string
}

func checkCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a page with the given field values",
		Long: `Load the configured page, fill in fields, submit the form and print
the result as JSON. The command fails when the submission is blocked.

Examples:
  formvalidator check --set '#email=ada@example.com' --set '#password=secret1'
  formvalidator check --check 'input[name="color"][value="red"]'
  formvalidator check --set 'input[name="gender"]=female' --attach '#avatar=me.png'
  formvalidator check --config ./signup/formvalidator.yaml --page ./signup/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: search from the working directory)")
	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "Page file (default from config)")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "Set a field value: selector=value")
	cmd.Flags().StringArrayVar(&opts.check, "check", nil, "Check the checkboxes or radios matching selector")
	cmd.Flags().StringArrayVar(&opts.attach, "attach", nil, "Attach a file to a file input: selector=path")

	return cmd
}

func runCheck(cmd *cobra.Command, opts checkOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.page != "" {
		if cfg.Page, err = filepath.Abs(opts.page); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	page, err := cfg.LoadPage()
	if err != nil {
		return err
	}

	vcfg, err := cfg.ValidatorConfig(func(validator.FormData) {})
	if err != nil {
		return err
	}

	logger := slog.Default()
	doc, err := dom.Parse(bytes.NewReader(page), dom.WithLogger(logger))
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	v, err := validator.New(doc, vcfg, validator.WithLogger(logger))
	if err != nil {
		return err
	}
	if !v.Bound() {
		return errors.New("E101").
			WithDetail(fmt.Sprintf("No element matches %q in %s", cfg.Form, cfg.PagePath()))
	}

	form := v.Form()
	for _, s := range opts.set {
		if err := setField(form, s); err != nil {
			return err
		}
	}
	for _, selector := range opts.check {
		fields, err := findFields(form, selector)
		if err != nil {
			return err
		}
		for _, f := range fields {
			f.SetChecked(true)
		}
	}
	for _, a := range opts.attach {
		if err := attachFile(form, a); err != nil {
			return err
		}
	}

	res := v.Submit()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}

	if !res.Valid {
		return errors.New("E142").
			WithDetail(fmt.Sprintf("%d field(s) failed validation", len(res.Failures)))
	}
	return nil
}

// loadConfig loads the config at path, or searches for one from the
// working directory when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromWorkingDir()
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return config.Load(path)
	}
	return config.LoadFile(path)
}

// splitAssignment splits "selector=value" at the first '=' outside
// attribute brackets and quotes.
func splitAssignment(flag, s string) (selector, value string, err error) {
	depth := 0
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
		case r == '=' && depth == 0:
			selector = strings.TrimSpace(s[:i])
			if selector == "" {
				break
			}
			return selector, s[i+1:], nil
		}
	}
	return "", "", errors.New("E140").
		WithDetail(fmt.Sprintf("--%s %q is not selector=value", flag, s)).
		WithExample(fmt.Sprintf("--%s '#email=ada@example.com'", flag))
}

func findFields(form *dom.Element, selector string) ([]*dom.Element, error) {
	if err := dom.Compile(selector); err != nil {
		return nil, errors.New("E100").WithDetail(fmt.Sprintf("%q does not parse", selector)).Wrap(err)
	}
	fields := form.QuerySelectorAll(selector)
	if len(fields) == 0 {
		return nil, errors.New("E102").WithDetail(fmt.Sprintf("No field matches %q", selector))
	}
	return fields, nil
}

// setField applies one --set flag. For checkbox and radio groups the
// option with the given value is checked.
func setField(form *dom.Element, s string) error {
	selector, value, err := splitAssignment("set", s)
	if err != nil {
		return err
	}
	fields, err := findFields(form, selector)
	if err != nil {
		return err
	}

	if !validator.KindOf(fields[0]).Grouped() {
		fields[0].SetValue(value)
		return nil
	}
	for _, f := range fields {
		if f.Value() == value {
			f.SetChecked(true)
			return nil
		}
	}
	return errors.New("E102").
		WithDetail(fmt.Sprintf("No option of %q has value %q", selector, value))
}

// attachFile applies one --attach flag. The file must exist; only its
// name, size and type are recorded.
func attachFile(form *dom.Element, s string) error {
	selector, path, err := splitAssignment("attach", s)
	if err != nil {
		return err
	}
	fields, err := findFields(form, selector)
	if err != nil {
		return err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return errors.New("E141").WithDetail("Cannot attach " + path).Wrap(err)
	}
	file := dom.File{
		Name:        filepath.Base(path),
		Size:        fi.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
	}
	fields[0].SetFiles(append(fields[0].Files(), file))
	return nil
}
