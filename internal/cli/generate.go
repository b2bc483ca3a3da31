package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rrpc-dev/rrpc-go/schema"
	"github.com/rrpc-dev/rrpc-go/schema/codegen"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutDir    string
	Targets   []string
	GoPackage string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <input.msl>",
		Short: "Generate typed wrappers from an MSL schema",
		Example: `  msl-compiler generate examples/schema/workspace.msl
  msl-compiler generate workspace.msl -o gen --target go --target ts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "examples/schema-generated", "output directory for generated code")
	cmd.Flags().StringArrayVar(&opts.Targets, "target", nil, "restrict output to the given targets (go|rust|ts|fsharp|jsonschema)")
	cmd.Flags().StringVar(&opts.GoPackage, "go-package", "schema", "package name for the Go artifact")

	return cmd
}

func runGenerate(opts *GenerateOptions, input string) error {
	doc, err := loadDocument(input)
	if err != nil {
		return err
	}

	genOpts := []codegen.Option{codegen.WithGoPackage(opts.GoPackage)}
	if len(opts.Targets) > 0 {
		targets, err := parseTargets(opts.Targets)
		if err != nil {
			return err
		}
		genOpts = append(genOpts, codegen.WithTargets(targets...))
	}

	if err := codegen.Generate(doc, opts.OutDir, genOpts...); err != nil {
		return fmt.Errorf("generate %s: %w", input, err)
	}

	slog.Info("generated schema artifacts", "schema", doc.Name, "types", len(doc.Types), "out", opts.OutDir)
	return nil
}

func loadDocument(input string) (*schema.Document, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	doc, err := schema.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseTargets(names []string) ([]codegen.Target, error) {
	known := make(map[codegen.Target]bool)
	for _, t := range codegen.AllTargets() {
		known[t] = true
	}

	targets := make([]codegen.Target, 0, len(names))
	for _, name := range names {
		t := codegen.Target(strings.ToLower(name))
		if !known[t] {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		targets = append(targets, t)
	}
	return targets, nil
}
