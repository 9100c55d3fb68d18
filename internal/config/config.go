package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/formvalidator/internal/errors"
	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "formvalidator.json"

	// YAMLFileName is the name of the YAML configuration file.
	YAMLFileName = "formvalidator.yaml"

	// DefaultPort is the default live server port.
	DefaultPort = 3000

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultGroupSelector is the default field group selector.
	DefaultGroupSelector = ".form-group"

	// DefaultMessageSelector is the default message slot selector.
	DefaultMessageSelector = ".form-message"

	// DefaultPage is the default page file, relative to the config file.
	DefaultPage = "index.html"
)

// Rule names accepted in RuleConfig.Rule. Matching ignores case and an
// optional "is" prefix, so "isRequired" and "required" are the same rule.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMinLength = "minlength"
	RuleMaxLength = "maxlength"
	RuleConfirmed = "confirmed"
	RulePattern   = "pattern"
)

var ruleNames = []string{"required", "email", "minLength", "maxLength", "confirmed", "pattern"}

// Config represents a formvalidator.json (or .yaml) file.
type Config struct {
	// Form is the selector of the validated form.
	Form string `json:"form" yaml:"form"`

	// FormGroupSelector locates the container around each field.
	FormGroupSelector string `json:"formGroupSelector,omitempty" yaml:"formGroupSelector,omitempty"`

	// MessageSelector locates the message slot inside a group.
	MessageSelector string `json:"messageSelector,omitempty" yaml:"messageSelector,omitempty"`

	// InvalidClass is the marker added to failed groups (default: "invalid").
	InvalidClass string `json:"invalidClass,omitempty" yaml:"invalidClass,omitempty"`

	// Page is the HTML page holding the form.
	Page string `json:"page,omitempty" yaml:"page,omitempty"`

	// Rules are applied in order.
	Rules []RuleConfig `json:"rules" yaml:"rules"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuleConfig declares one rule.
type RuleConfig struct {
	// Rule is the rule name: required, email, minLength, maxLength,
	// confirmed or pattern.
	Rule string `json:"rule" yaml:"rule"`

	// Selector matches the fields the rule applies to.
	Selector string `json:"selector" yaml:"selector"`

	// Length is the bound of minLength and maxLength.
	Length int `json:"length,omitempty" yaml:"length,omitempty"`

	// Target is the selector of the field a confirmed rule compares with.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Pattern is the regular expression of a pattern rule.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Message overrides the default message.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Form:              "form",
		FormGroupSelector: DefaultGroupSelector,
		MessageSelector:   DefaultMessageSelector,
		InvalidClass:      validator.DefaultInvalidClass,
		Page:              DefaultPage,
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for formvalidator.json, then formvalidator.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No configuration found at " + path).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = decodeYAML(path, data, cfg)
	} else {
		err = decodeJSON(path, data, cfg)
	}
	if err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decodeJSON(path string, data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		fe := errors.New("E120").
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")

		var syntax *json.SyntaxError
		var typ *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntax):
			line, col := position(data, syntax.Offset)
			fe.WithLocation(path, line, col)
		case stderrors.As(err, &typ):
			line, col := position(data, typ.Offset)
			fe.WithLocation(path, line, col)
		}
		return fe
	}
	return nil
}

// yamlLine extracts the first line number from a yaml.v3 error message.
var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		fe := errors.New("E120").
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			if line, convErr := strconv.Atoi(m[1]); convErr == nil {
				fe.WithLocation(path, line, 0)
			}
		}
		return fe
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml and as JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.FormGroupSelector == "" {
		c.FormGroupSelector = DefaultGroupSelector
	}
	if c.MessageSelector == "" {
		c.MessageSelector = DefaultMessageSelector
	}
	if c.InvalidClass == "" {
		c.InvalidClass = validator.DefaultInvalidClass
	}
	if c.Page == "" {
		c.Page = DefaultPage
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail(fmt.Sprintf("Port %d is not between 1 and 65535", c.Server.Port))
	}

	if err := checkSelector("form", c.Form); err != nil {
		return err
	}
	if err := checkSelector("formGroupSelector", c.FormGroupSelector); err != nil {
		return err
	}
	if err := checkSelector("messageSelector", c.MessageSelector); err != nil {
		return err
	}

	for i, r := range c.Rules {
		if _, err := r.build(); err != nil {
			var fe *errors.Error
			if stderrors.As(err, &fe) {
				fe.WithDetail(fmt.Sprintf("rules[%d]: %s", i, fe.Detail))
			}
			return err
		}
	}
	return nil
}

func checkSelector(field, selector string) error {
	if selector == "" {
		return errors.New("E123").
			WithDetail(field + " is empty").
			WithSuggestion(`Set "` + field + `" to a CSS selector`)
	}
	if err := dom.Compile(selector); err != nil {
		return errors.New("E100").
			WithDetail(fmt.Sprintf("%s %q does not parse", field, selector)).
			Wrap(err)
	}
	return nil
}

// canonicalRule normalizes a rule name.
func canonicalRule(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "is")
}

// build turns the declaration into a validator.Rule.
func (r RuleConfig) build() (validator.Rule, error) {
	if err := checkSelector("selector", r.Selector); err != nil {
		return validator.Rule{}, err
	}

	switch canonicalRule(r.Rule) {
	case RuleRequired:
		return validator.IsRequired(r.Selector, r.Message), nil
	case RuleEmail:
		return validator.IsEmail(r.Selector, r.Message), nil
	case RuleMinLength, RuleMaxLength:
		if r.Length <= 0 {
			return validator.Rule{}, errors.New("E124").
				WithDetail(fmt.Sprintf("%s on %q needs a positive length", r.Rule, r.Selector)).
				WithExample(fmt.Sprintf(`{"rule": %q, "selector": %q, "length": 6}`, r.Rule, r.Selector))
		}
		if canonicalRule(r.Rule) == RuleMinLength {
			return validator.MinLength(r.Selector, r.Length, r.Message), nil
		}
		return validator.MaxLength(r.Selector, r.Length, r.Message), nil
	case RuleConfirmed:
		if err := checkSelector("target", r.Target); err != nil {
			return validator.Rule{}, err
		}
		return validator.IsConfirmed(r.Selector, r.Target, r.Message), nil
	case RulePattern:
		re, err := regexp.Compile(r.Pattern)
		if err != nil || r.Pattern == "" {
			fe := errors.New("E124").
				WithDetail(fmt.Sprintf("pattern on %q needs a valid regular expression", r.Selector))
			if err != nil {
				fe.Wrap(err)
			}
			return validator.Rule{}, fe
		}
		return validator.Pattern(r.Selector, re, r.Message), nil
	default:
		return validator.Rule{}, errors.New("E121").
			WithDetail(fmt.Sprintf("%q is not a known rule", r.Rule)).
			WithSuggestion("Use one of: " + strings.Join(ruleNames, ", "))
	}
}

// ValidatorRules builds the declared rules in order.
func (c *Config) ValidatorRules() ([]validator.Rule, error) {
	rules := make([]validator.Rule, 0, len(c.Rules))
	for _, r := range c.Rules {
		rule, err := r.build()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ValidatorConfig builds the validator configuration. onSubmit may be nil
// for native submission.
func (c *Config) ValidatorConfig(onSubmit func(validator.FormData)) (validator.Config, error) {
	rules, err := c.ValidatorRules()
	if err != nil {
		return validator.Config{}, err
	}
	return validator.Config{
		Form:              c.Form,
		FormGroupSelector: c.FormGroupSelector,
		MessageSelector:   c.MessageSelector,
		InvalidClass:      c.InvalidClass,
		Rules:             rules,
		OnSubmit:          onSubmit,
	}, nil
}

// Address returns the address string for the live server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the full URL of the live server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// PagePath returns the absolute path to the page file.
func (c *Config) PagePath() string {
	if filepath.IsAbs(c.Page) {
		return c.Page
	}
	return filepath.Join(c.Dir(), c.Page)
}

// LoadPage reads the page file.
func (c *Config) LoadPage() ([]byte, error) {
	data, err := os.ReadFile(c.PagePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No page found at " + c.PagePath()).
				WithSuggestion(`Set "page" in ` + filepath.Base(c.configPath) + " or pass --page")
		}
		return nil, errors.FromError(err, "E141")
	}
	return data, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing the config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
