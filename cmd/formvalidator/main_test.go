package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/formvalidator/internal/config"
	"github.com/vango-dev/formvalidator/internal/errors"
)

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func code(err error) string {
	var fe *errors.Error
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

func initProject(t *testing.T, extra ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "signup")
	if _, err := run(t, append([]string{"init", dir}, extra...)...); err != nil {
		t.Fatalf("init error: %v", err)
	}
	return dir
}

func TestInit(t *testing.T) {
	dir := initProject(t)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if len(cfg.Rules) != 8 {
		t.Errorf("len(Rules) = %d, want 8", len(cfg.Rules))
	}

	page, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("page not written: %v", err)
	}
	for _, want := range []string{
		`id="form"`,
		`method="post"`,
		`class="form-group"`,
		`<fieldset class="form-group"><legend>Gender</legend>`,
		`name="gender"`,
		`aria-describedby="email-message"`,
		`<span aria-live="polite" class="form-message" id="email-message"></span>`,
	} {
		if !strings.Contains(string(page), want) {
			t.Errorf("page is missing %s", want)
		}
	}

	if _, err := run(t, "init", dir); code(err) != "E140" {
		t.Errorf("second init = %v, want E140", err)
	}
	if _, err := run(t, "init", dir, "--force", "--yaml"); err != nil {
		t.Errorf("init --force = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.YAMLFileName)); err != nil {
		t.Errorf("yaml config not written: %v", err)
	}
}

type checkOutput struct {
	State    string `json:"state"`
	Valid    bool   `json:"valid"`
	Failures []struct {
		Selector string `json:"selector"`
		Message  string `json:"message"`
	} `json:"failures"`
	Data map[string]any `json:"data"`
}

func TestCheckBlocked(t *testing.T) {
	dir := initProject(t)

	out, err := run(t, "check", "--config", dir)
	if code(err) != "E142" {
		t.Fatalf("check error = %v, want E142", err)
	}

	var res checkOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.State != "blocked" || res.Valid {
		t.Errorf("State = %q, Valid = %v, want blocked", res.State, res.Valid)
	}
	if len(res.Failures) != 7 {
		t.Errorf("len(Failures) = %d, want 7", len(res.Failures))
	}
	if res.Failures[0].Message != "Please enter a username" {
		t.Errorf("first failure = %+v", res.Failures[0])
	}
}

func TestCheckValid(t *testing.T) {
	dir := initProject(t)
	avatar := filepath.Join(dir, "me.png")
	if err := os.WriteFile(avatar, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "check",
		"--config", filepath.Join(dir, config.ConfigFileName),
		"--set", "#username=ada",
		"--set", "#email=ada@example.com",
		"--set", "#password=secret1",
		"--set", "#confirm-password=secret1",
		"--set", "#select=hn",
		"--set", `input[name="gender"]=female`,
		"--check", `input[name="color"][value="red"]`,
		"--check", `input[name="color"][value="blue"]`,
		"--attach", "#avatar="+avatar,
	)
	if err != nil {
		t.Fatalf("check error: %v\n%s", err, out)
	}

	var res checkOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !res.Valid || res.State != "collecting" {
		t.Errorf("State = %q, Valid = %v, want valid", res.State, res.Valid)
	}
	if res.Data["gender"] != "female" {
		t.Errorf("gender = %v, want female", res.Data["gender"])
	}
	colors, _ := res.Data["color"].([]any)
	if len(colors) != 2 || colors[0] != "red" || colors[1] != "blue" {
		t.Errorf("color = %v, want [red blue]", res.Data["color"])
	}
	files, _ := res.Data["avatar"].([]any)
	if len(files) != 1 {
		t.Fatalf("avatar = %v, want one file", res.Data["avatar"])
	}
	if file, _ := files[0].(map[string]any); file["name"] != "me.png" || file["type"] != "image/png" {
		t.Errorf("avatar file = %v", files[0])
	}
}

func TestCheckFlagErrors(t *testing.T) {
	dir := initProject(t)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no assignment", []string{"--set", "#username"}, "E140"},
		{"unknown field", []string{"--set", "#nope=x"}, "E102"},
		{"unknown option", []string{"--set", `input[name="gender"]=other`}, "E102"},
		{"bad selector", []string{"--check", "input["}, "E100"},
		{"missing file", []string{"--attach", "#avatar=" + filepath.Join(dir, "missing.png")}, "E141"},
		{"missing page", []string{"--page", filepath.Join(dir, "missing.html")}, "E141"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"check", "--config", dir}, tt.args...)
			if _, err := run(t, args...); code(err) != tt.code {
				t.Errorf("check %v = %v, want %s", tt.args, err, tt.code)
			}
		})
	}
}

func TestSplitAssignment(t *testing.T) {
	tests := []struct {
		in       string
		selector string
		value    string
	}{
		{"#email=a@b.co", "#email", "a@b.co"},
		{`input[name="gender"]=male`, `input[name="gender"]`, "male"},
		{`input[name='a=b']=x=y`, `input[name='a=b']`, "x=y"},
		{"#empty=", "#empty", ""},
	}
	for _, tt := range tests {
		selector, value, err := splitAssignment("set", tt.in)
		if err != nil {
			t.Errorf("splitAssignment(%q) error: %v", tt.in, err)
			continue
		}
		if selector != tt.selector || value != tt.value {
			t.Errorf("splitAssignment(%q) = %q, %q, want %q, %q", tt.in, selector, value, tt.selector, tt.value)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	dir := initProject(t)

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, stderr string)
	}{
		{"compact when not a terminal", "auto", func(t *testing.T, stderr string) {
			if stderr != "E142: Validation failed\n" {
				t.Errorf("stderr = %q, want compact E142 line", stderr)
			}
		}},
		{"json", "json", func(t *testing.T, stderr string) {
			var got struct {
				Code     string `json:"code"`
				Category string `json:"category"`
			}
			if err := json.Unmarshal([]byte(stderr), &got); err != nil {
				t.Fatalf("stderr is not JSON: %v\n%s", err, stderr)
			}
			if got.Code != "E142" || got.Category != "cli" {
				t.Errorf("error = %+v, want E142 cli", got)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs([]string{"check", "--config", dir, "--error-format", tt.format})

			if code := execute(cmd); code != 1 {
				t.Fatalf("execute() = %d, want 1", code)
			}
			tt.check(t, errOut.String())
		})
	}

	if _, err := run(t, "check", "--config", dir, "--error-format", "yaml"); code(err) != "E140" {
		t.Errorf("unknown error format = %v, want E140", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}
