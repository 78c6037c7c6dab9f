package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/reqsnip/internal/emitter/rsemitter"
	"github.com/mark3labs/reqsnip/internal/logging"
	"github.com/mark3labs/reqsnip/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input          string
	Mode           string
	Format         string
	Out            string
	IncludeTags    []string
	ExcludeTags    []string
	Timeout        time.Duration
	SkipValidation bool
	ConfigPath     string
	Verbose        bool
}

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Mode:    rsemitter.Standard.String(),
		Format:  formatYAML,
		Timeout: spec.DefaultSettings().HTTPTimeout,
	}
}

// generateRunner is swapped out by tests that only care about configuration.
var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Emit request fragments for every operation of a document",
		Long: "Emit the path, query and header fragments of a Rust reqwest client for every operation " +
			"of an OpenAPI/Swagger document. Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  reqsnip generate --input petstore.yaml
  reqsnip generate --input https://example.com/openapi.json --mode ffi --format json --out snippets.json
  reqsnip --config reqsnip.yaml generate --include-tags pets`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("mode", "", "Generation mode (standard|ffi); defaults to standard")
	flags.String("format", "", "Report format (yaml|json); defaults to yaml")
	flags.String("out", "", "Write the report to this file (or into this directory) instead of stdout")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.Duration("timeout", 0, "Per-attempt timeout when fetching a remote document")
	flags.Bool("skip-validation", false, "Do not validate the document before emitting")

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

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	for name, dst := range map[string]*string{
		"input":  &cfg.Input,
		"mode":   &cfg.Mode,
		"format": &cfg.Format,
		"out":    &cfg.Out,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}
	for name, dst := range map[string]*[]string{
		"include-tags": &cfg.IncludeTags,
		"exclude-tags": &cfg.ExcludeTags,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = sanitizeTags(value)
	}
	for name, dst := range map[string]*bool{
		"skip-validation": &cfg.SkipValidation,
		"verbose":         &cfg.Verbose,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}
	if flags.Changed("timeout") {
		value, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Out = strings.TrimSpace(c.Out)
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	mode, err := rsemitter.ParseMode(c.Mode)
	if err != nil {
		return newUsageError("generate: " + err.Error())
	}
	c.Mode = mode.String()

	switch c.Format {
	case "":
		c.Format = formatYAML
	case formatYAML, "yml":
		c.Format = formatYAML
	case formatJSON:
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: yaml, json)", c.Format))
	}

	if c.Timeout < 0 {
		return newUsageError(fmt.Sprintf("generate: --timeout must not be negative, got %s", c.Timeout))
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig, stdout, stderr io.Writer) error {
	log := logging.NewText(stderr, cfg.Verbose)

	mode, err := rsemitter.ParseMode(cfg.Mode)
	if err != nil {
		return newUsageError("generate: " + err.Error())
	}

	order := spec.NewPropertyOrder()
	loadOpts := []spec.Option{spec.WithSkipValidation(cfg.SkipValidation), spec.RecordPropertyOrder(order)}
	if cfg.Timeout > 0 {
		loadOpts = append(loadOpts, spec.WithHTTPTimeout(cfg.Timeout))
	}
	doc, err := spec.Load(ctx, cfg.Input, loadOpts...)
	if err != nil {
		var se *spec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec (%s): %s", se.Code, se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			return newUsageError(msg)
		}
		return err
	}

	sm, err := spec.BuildServiceModel(ctx, doc,
		spec.WithIncludeTags(cfg.IncludeTags),
		spec.WithExcludeTags(cfg.ExcludeTags),
		spec.WithPropertyOrder(order),
	)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}
	log.Info("loaded document", "title", sm.Title, "version", sm.Version, "operations", len(sm.Operations))

	em := rsemitter.New(rsemitter.WithTypes(sm.Types), rsemitter.WithLogger(log))
	report, err := buildReport(ctx, em, sm, mode, log)
	if err != nil {
		return err
	}

	data, err := report.encode(cfg.Format)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if cfg.Out == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		path, err := writeReport(cfg.Out, reportFileName(sm.Title, cfg.Format), data)
		if err != nil {
			return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out or check directory permissions.", cfg.Out, err))
		}
		fmt.Fprintf(stdout, "Wrote %d operations to %s\n", len(report.Operations), path)
	}

	return report.err()
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}
