package main

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"gotest.tools/v3/assert"
)

func newExportsTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addExportsFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd
}

func TestGetExportsOptions(t *testing.T) {
	config := Config{
		ConfigVersion: "1.0",
		Input:         "lib/main.ts",
		Conditions:    []string{"development", "import"},
		Exclude:       []string{"generated/"},
		OutputFormat:  OutputYAML,
	}

	t.Run("defaults without config", func(t *testing.T) {
		cmd := newExportsTestCommand(t)

		got, err := getExportsOptions(cmd, Config{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.input != "src/index.ts" {
			t.Errorf("expected default input src/index.ts, got %s", got.input)
		}
		if got.output != OutputText {
			t.Errorf("expected text output, got %s", got.output)
		}
		if !reflect.DeepEqual(got.conditions, []string{"node", "import"}) {
			t.Errorf("expected default conditions, got %v", got.conditions)
		}
		if got.source != nil {
			t.Errorf("expected no inline source")
		}
	})

	t.Run("config values apply when flags are absent", func(t *testing.T) {
		cmd := newExportsTestCommand(t)

		got, err := getExportsOptions(cmd, config)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.input != "lib/main.ts" {
			t.Errorf("expected config input, got %s", got.input)
		}
		if got.output != OutputYAML {
			t.Errorf("expected yaml output, got %s", got.output)
		}
		if !reflect.DeepEqual(got.conditions, []string{"development", "import"}) {
			t.Errorf("expected config conditions, got %v", got.conditions)
		}
		if !reflect.DeepEqual(got.exclude, []string{"generated/"}) {
			t.Errorf("expected config exclude, got %v", got.exclude)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		cmd := newExportsTestCommand(t, "-i", "src/other.ts", "-o", "json", "--conditions", "node", "--exclude", "vendor/", "--quiet")

		got, err := getExportsOptions(cmd, config)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.input != "src/other.ts" {
			t.Errorf("expected flag input, got %s", got.input)
		}
		if got.output != OutputJSON {
			t.Errorf("expected json output, got %s", got.output)
		}
		if !reflect.DeepEqual(got.conditions, []string{"node"}) {
			t.Errorf("expected flag conditions, got %v", got.conditions)
		}
		if !reflect.DeepEqual(got.exclude, []string{"generated/", "vendor/"}) {
			t.Errorf("expected merged exclude patterns, got %v", got.exclude)
		}
		if !got.quiet {
			t.Errorf("expected quiet mode")
		}
	})

	t.Run("inline source", func(t *testing.T) {
		cmd := newExportsTestCommand(t, "--source", "export const a = 1;")

		got, err := getExportsOptions(cmd, Config{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.source == nil || *got.source != "export const a = 1;" {
			t.Errorf("expected inline source, got %v", got.source)
		}
	})

	t.Run("unknown output format", func(t *testing.T) {
		cmd := newExportsTestCommand(t, "-o", "xml")

		if _, err := getExportsOptions(cmd, Config{}); err == nil {
			t.Fatalf("expected error for unknown output format")
		}
	})

	t.Run("relative exclude flag", func(t *testing.T) {
		cmd := newExportsTestCommand(t, "--exclude", "./generated")

		if _, err := getExportsOptions(cmd, Config{}); err == nil {
			t.Fatalf("expected error for relative exclude pattern")
		}
	})
}

func TestExportsCmdFn(t *testing.T) {
	filesystem := newMemFs(t, map[string]string{
		"/proj/src/index.ts":     "export * from './shapes.js';\nexport * from './missing';\nexport default function main() {}",
		"/proj/src/shapes.ts":    "export const circle = 1;\nexport const square = 2;",
		"/proj/generated/api.ts": "export const api = 1;",
	})

	t.Run("located input", func(t *testing.T) {
		var out bytes.Buffer
		err := exportsCmdFn(&out, filesystem, "/proj", exportsOptions{
			input:  "src/index.ts",
			output: OutputJSON,
			quiet:  true,
		})
		assert.NilError(t, err)

		expected := `{
  "circle": {
    "named": true
  },
  "main": {
    "default": true
  },
  "square": {
    "named": true
  }
}
`
		assert.Equal(t, out.String(), expected)
	})

	t.Run("inline source", func(t *testing.T) {
		var out bytes.Buffer
		source := "export const a = 1;\nexport default a;"
		err := exportsCmdFn(&out, filesystem, "/proj", exportsOptions{
			source: &source,
			output: OutputYAML,
		})
		assert.NilError(t, err)
		assert.Equal(t, out.String(), "a:\n  default: true\n  named: true\n")
	})

	t.Run("missing input", func(t *testing.T) {
		var out bytes.Buffer
		err := exportsCmdFn(&out, filesystem, "/proj", exportsOptions{
			input:  "src/nope.ts",
			output: OutputText,
		})
		assert.ErrorIs(t, err, ErrModuleNotLoadable)
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		var out bytes.Buffer
		err := exportsCmdFn(&out, filesystem, "/proj", exportsOptions{
			input:   "src/index.ts",
			output:  OutputText,
			exclude: []string{"src/[a-"},
		})
		assert.ErrorContains(t, err, "invalid exclude pattern")
	})
}

func TestResolveCmdFn(t *testing.T) {
	filesystem := newMemFs(t, map[string]string{
		"/proj/src/index.ts":   "",
		"/proj/src/sibling.ts": "",
	})

	var out bytes.Buffer
	err := resolveCmdFn(&out, filesystem, "./sibling.js", "/proj/src/index.ts", DefaultConditionNames)

	assert.NilError(t, err)
	assert.Equal(t, out.String(), "/proj/src/sibling.ts\n")

	var notFoundOut bytes.Buffer
	err = resolveCmdFn(&notFoundOut, filesystem, "./nope", "/proj/src/index.ts", DefaultConditionNames)
	var notFound *ModuleNotFoundError
	assert.Assert(t, errors.As(err, &notFound))
	assert.Equal(t, notFoundOut.String(), "")
}
