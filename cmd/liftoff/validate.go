// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/invowk/liftoff/internal/issue"
	"github.com/invowk/liftoff/pkg/liftoff"
)

type (
	validateFlags struct {
		invocationFlags
		schema string
	}

	// SchemaViolation is one failed JSON Schema constraint.
	SchemaViolation struct {
		// Path is the JSON pointer of the offending value; "" is the root.
		Path    string
		Message string
	}

	// SchemaViolationsError lists every violation of one validation.
	SchemaViolationsError struct {
		Name       string
		Violations []SchemaViolation
	}
)

func (e *SchemaViolationsError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		path := v.Path
		if path == "" {
			path = "/"
		}
		lines = append(lines, path+": "+v.Message)
	}
	return fmt.Sprintf("config %q does not match the schema: %s", e.Name, strings.Join(lines, "; "))
}

func newValidateCommand(app *App) *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate <name> --schema <file.json>",
		Short: "Validate a merged config file against a JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.Context(), app, flags, args[0])
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().StringVar(&flags.schema, "schema", "", "JSON Schema file")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func validateConfig(ctx context.Context, app *App, flags *validateFlags, name string) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(flags.schema)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("compile schema").
			WithResource(flags.schema).
			WithSuggestion("Check that the schema file exists and is valid JSON Schema").
			Wrap(err).
			BuildError()
	}

	lo, err := app.newLiftoff()
	if err != nil {
		return actionable(err, "configure bootstrap")
	}
	eo, _, err := app.invocation(&flags.invocationFlags, nil)
	if err != nil {
		return actionable(err, "read invocation")
	}

	return lo.Prepare(ctx, eo, func(_ context.Context, env *liftoff.Environment) error {
		cfg, ok := env.Config(name)
		if !ok {
			return fmt.Errorf("config %q is not declared in the settings", name)
		}
		if err := validateAgainst(schema, name, cfg); err != nil {
			return issue.NewErrorContext().
				WithOperation("validate config").
				WithResource(name).
				WithIssue(issue.SchemaValidationFailedId).
				Wrap(err).
				BuildError()
		}
		fmt.Fprintf(app.stdout, "%s %s matches %s\n", SuccessStyle.Render("✓"), name, flags.schema)
		return nil
	})
}

// validateAgainst validates v after a JSON round trip, so values decoded by
// YAML, TOML or HCL loaders are checked as their JSON equivalents.
func validateAgainst(schema *jsonschema.Schema, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := &SchemaViolationsError{Name: name}
	collectViolations(ve, &out.Violations)
	return out
}

// collectViolations gathers the leaf causes of ve.
func collectViolations(ve *jsonschema.ValidationError, out *[]SchemaViolation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, SchemaViolation{Path: ve.InstanceLocation, Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectViolations(cause, out)
	}
}
