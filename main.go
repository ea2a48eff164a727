package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var Version = "0.1.0"

var (
	currentDir, _ = os.Getwd()
	verbose       bool
	rootCmd       = &cobra.Command{
		Use:   "ts-stub",
		Short: "Inspect the exports of TypeScript and ES modules",
		Long: `Lists every name a TypeScript or ES module exports, following "export * from"
re-exports through Node's module resolution, so stubs can be generated for it.`,
		Version:       Version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			SetupLogging(verbose)
		},
	}
)

var docsCmd = &cobra.Command{
	Use:   "doc-gen",
	Short: "Generate CLI documentation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return doc.GenMarkdownTree(rootCmd, "./docs")
	},
}

// ---------------- exports ----------------

var (
	exportsInput      string
	exportsSource     string
	exportsOutput     string
	exportsConditions []string
	exportsExclude    []string
	exportsConfigPath string
	exportsQuiet      bool
)

type exportsOptions struct {
	input      string
	source     *string
	output     OutputFormat
	conditions []string
	exclude    []string
	quiet      bool
}

var exportsCmd = &cobra.Command{
	Use:   "exports [cwd]",
	Short: "List the exports of a module",
	Long: `Parses the input module and prints each exported name with whether it is
exported as default, as a named export, or both. Wildcard re-exports are
followed; the ones that cannot be are reported as warnings.`,
	Example: "ts-stub exports -i src/index.ts -o json",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd := currentDir
		if len(args) == 1 {
			cwd = args[0]
		}
		cwd = ResolveAbsoluteCwd(cwd)
		filesystem := afero.NewOsFs()

		configPath := cwd
		if exportsConfigPath != "" {
			configPath = JoinWithCwd(cwd, exportsConfigPath)
		}
		config, err := LoadConfig(filesystem, configPath)
		if err != nil {
			return err
		}

		options, err := getExportsOptions(cmd, config)
		if err != nil {
			return err
		}

		return exportsCmdFn(cmd.OutOrStdout(), filesystem, cwd, options)
	},
}

func addExportsFlags(command *cobra.Command) {
	command.Flags().StringVarP(&exportsInput, "input", "i", "src/index.ts",
		"Module to extract exports from, relative to cwd")
	command.Flags().StringVar(&exportsSource, "source", "",
		"Inline module source to extract exports from instead of --input")
	command.Flags().StringVarP(&exportsOutput, "output", "o", string(OutputText),
		"Output format: text, json or yaml")
	command.Flags().StringSliceVar(&exportsConditions, "conditions", DefaultConditionNames,
		"package.json export conditions used to resolve re-exported packages")
	command.Flags().StringSliceVar(&exportsExclude, "exclude", []string{},
		"Glob patterns of modules whose re-exports are not followed")
	command.Flags().StringVar(&exportsConfigPath, "config", "",
		"Path to "+configFileName+" (default: <cwd>/"+configFileName+")")
	command.Flags().BoolVarP(&exportsQuiet, "quiet", "q", false,
		"Do not report re-exports that could not be followed")
}

// getExportsOptions merges config values with flags; flags set on the
// command line win.
func getExportsOptions(cmd *cobra.Command, config Config) (exportsOptions, error) {
	options := exportsOptions{
		input:      exportsInput,
		output:     OutputFormat(exportsOutput),
		conditions: exportsConditions,
		exclude:    append(slices.Clone(config.Exclude), exportsExclude...),
		quiet:      exportsQuiet,
	}

	if config.Input != "" && !cmd.Flags().Changed("input") {
		options.input = config.Input
	}
	if len(config.Conditions) > 0 && !cmd.Flags().Changed("conditions") {
		options.conditions = config.Conditions
	}
	if config.OutputFormat != "" && !cmd.Flags().Changed("output") {
		options.output = config.OutputFormat
	}
	if cmd.Flags().Changed("source") {
		source := exportsSource
		options.source = &source
	}

	if !slices.Contains(outputFormats, options.output) {
		return exportsOptions{}, fmt.Errorf("unsupported output format '%s', expected one of text, json, yaml", options.output)
	}
	for _, pattern := range exportsExclude {
		if err := validatePattern(pattern); err != nil {
			return exportsOptions{}, err
		}
	}
	return options, nil
}

func exportsCmdFn(out io.Writer, filesystem afero.Fs, cwd string, options exportsOptions) error {
	matchers, err := CreateGlobMatchers(options.exclude, cwd)
	if err != nil {
		return err
	}

	resolver := NewModuleResolver(NewHostResolver(filesystem), options.conditions)
	extractor := NewExtractor(NewFsLoader(filesystem), resolver, WithExcludePatterns(matchers))

	var module ModuleReference
	if options.source != nil {
		module = InlineModule{Source: *options.source}
	} else {
		module = LocatedModule{Location: NewLocation(JoinWithCwd(cwd, options.input))}
	}
	logDebug("extracting exports of %s", module.displayName())

	exports, diagnostics, err := extractor.Extract(module)
	if !options.quiet {
		for _, diagnostic := range diagnostics {
			logWarning("%s", diagnostic)
		}
	}
	if err != nil {
		return err
	}

	return FormatExports(out, exports, options.output)
}

// ---------------- resolve ----------------

var (
	resolveFrom       string
	resolveConditions []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>",
	Short: "Resolve a module specifier the way re-exports are resolved",
	Long: `Resolves the specifier relative to --from, trying the specifier as written
(with a trailing ".js" removed), then with ".ts" and "/index.ts" appended.`,
	Example: `ts-stub resolve ./utils.js --from src/index.ts`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveCmdFn(cmd.OutOrStdout(), afero.NewOsFs(), args[0], JoinWithCwd(currentDir, resolveFrom), resolveConditions)
	},
}

func resolveCmdFn(out io.Writer, filesystem afero.Fs, specifier string, from string, conditions []string) error {
	resolver := NewModuleResolver(NewHostResolver(filesystem), conditions)
	location, err := resolver.Resolve(specifier, NewLocation(from))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, location)
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false,
		"Log resolution steps")

	addExportsFlags(exportsCmd)

	resolveCmd.Flags().StringVarP(&resolveFrom, "from", "f", "index.ts",
		"File the specifier is written in; it does not need to exist")
	resolveCmd.Flags().StringSliceVar(&resolveConditions, "conditions", DefaultConditionNames,
		"package.json export conditions")

	rootCmd.AddCommand(exportsCmd, resolveCmd, docsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		Logger.Fatal(err)
	}
}
