package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/astroseek/alpacagen/internal/docs"
	"github.com/astroseek/alpacagen/internal/render"
	genspec "github.com/astroseek/alpacagen/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Spec       string // path or URL to the device API description
	Docs       string // path or URL to the member documentation text
	Out        string // output file; stdout when empty
	Template   string // optional template file overriding the built-in one
	Formatter  string // external formatter command
	ConfigPath string
	DryRun     bool
	Verbose    bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Formatter: "gofmt"}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Normalize the device API description and render typed code",
		Long: "Normalize the ASCOM Alpaca OpenAPI description into a canonical, deduplicated " +
			"schema model, resolve canonical method names from the member documentation, and " +
			"render typed source code. Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  alpacagen generate --spec AlpacaDeviceAPI_v1.yaml --docs members.txt --out api.gen.go
  alpacagen --config alpacagen.yaml generate --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("spec", "", "Path or URL to the Alpaca OpenAPI document")
	flags.String("docs", "", "Path or URL to the ASCOM member documentation text")
	flags.String("out", "", "Output file (stdout when omitted)")
	flags.String("template", "", "Template file overriding the built-in template")
	flags.String("formatter", "", "Formatter command for rendered output; defaults to gofmt")
	flags.Bool("dry-run", false, "Run the pipeline and report diagnostics without writing output")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		cfg.Verbose = true
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type generateFileConfig struct {
	Spec      string `yaml:"spec"`
	Docs      string `yaml:"docs"`
	Out       string `yaml:"out"`
	Template  string `yaml:"template"`
	Formatter string `yaml:"formatter"`
	DryRun    *bool  `yaml:"dryRun"`
	Verbose   *bool  `yaml:"verbose"`
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: read config %s: %v", path, err))
	}
	var fc generateFileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return newUsageError(fmt.Sprintf("generate: parse config %s: %v", path, err))
	}
	if fc.Spec != "" {
		cfg.Spec = fc.Spec
	}
	if fc.Docs != "" {
		cfg.Docs = fc.Docs
	}
	if fc.Out != "" {
		cfg.Out = fc.Out
	}
	if fc.Template != "" {
		cfg.Template = fc.Template
	}
	if fc.Formatter != "" {
		cfg.Formatter = fc.Formatter
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	if flags.Changed("spec") {
		value, err := flags.GetString("spec")
		if err != nil {
			return err
		}
		cfg.Spec = strings.TrimSpace(value)
	}
	if flags.Changed("docs") {
		value, err := flags.GetString("docs")
		if err != nil {
			return err
		}
		cfg.Docs = strings.TrimSpace(value)
	}
	if flags.Changed("out") {
		value, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = strings.TrimSpace(value)
	}
	if flags.Changed("template") {
		value, err := flags.GetString("template")
		if err != nil {
			return err
		}
		cfg.Template = strings.TrimSpace(value)
	}
	if flags.Changed("formatter") {
		value, err := flags.GetString("formatter")
		if err != nil {
			return err
		}
		cfg.Formatter = strings.TrimSpace(value)
	}
	if flags.Changed("dry-run") {
		value, err := flags.GetBool("dry-run")
		if err != nil {
			return err
		}
		cfg.DryRun = value
	}
	return nil
}

func (c *GenerateConfig) normalize() {
	c.Spec = strings.TrimSpace(c.Spec)
	c.Docs = strings.TrimSpace(c.Docs)
	c.Out = strings.TrimSpace(c.Out)
	c.Template = strings.TrimSpace(c.Template)
	c.Formatter = strings.TrimSpace(c.Formatter)
}

func (c *GenerateConfig) validate() error {
	if c.Spec == "" {
		return newUsageError("generate: --spec is required (set via flag or config file)")
	}
	if c.Docs == "" {
		return newUsageError("generate: --docs is required (set via flag or config file)")
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	// 1) Load the device API description and the naming source.
	doc, err := genspec.Load(ctx, cfg.Spec)
	if err != nil {
		var se *genspec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return newUsageError(msg)
		}
		return err
	}

	docsText, err := genspec.LoadText(ctx, cfg.Docs)
	if err != nil {
		return err
	}
	names := docs.Parse(docsText)
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "docs: extracted %d canonical member names\n", names.Len())
	}

	// 2) Run the normalization pipeline.
	model, err := genspec.NewPipeline(doc, genspec.WithNameResolver(names)).Run()
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	// Residual duplicate shapes are advisory only.
	for _, group := range model.Duplicates {
		fmt.Fprintf(os.Stderr, "warning: %d duplicate types share one shape: %s\n",
			len(group.Names), strings.Join(group.Names, ", "))
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "  shape: %s\n", group.Key)
		}
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "normalize: %d operations, %d types, %d replaced by canonical schemas\n",
			len(model.Operations), len(model.Table()), len(model.Replacements))
	}

	if cfg.DryRun {
		fmt.Fprintf(os.Stdout, "Dry run: would render %d operations and %d types to %s\n",
			len(model.Operations), len(model.Table()), outName(cfg.Out))
		return nil
	}

	// 3) Render and format.
	opts := render.Options{Formatter: cfg.Formatter}
	if cfg.Template != "" {
		raw, err := os.ReadFile(cfg.Template)
		if err != nil {
			return newUsageError(fmt.Sprintf("generate: read template %s: %v", cfg.Template, err))
		}
		opts.Template = string(raw)
	}
	out, err := render.Render(ctx, model, opts)
	if err != nil {
		return err
	}

	// 4) Write the result.
	if cfg.Out == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if dir := filepath.Dir(cfg.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return newUsageError(fmt.Sprintf("generate: create output directory %s: %v", dir, err))
		}
	}
	if err := os.WriteFile(cfg.Out, out, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("generate: write %s: %v", cfg.Out, err))
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", cfg.Out, len(out))
	}
	return nil
}

func outName(out string) string {
	if out == "" {
		return "stdout"
	}
	return out
}
