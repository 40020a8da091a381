// Package handler provides command execution abstraction to reduce boilerplate
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thenoetrevino/listctl/internal/cli"
)

// Handler defines the interface for command execution
type Handler interface {
	// Execute runs the command with parsed arguments
	Execute(ctx context.Context, args *Arguments) (any, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, args *Arguments) (any, error)

// Execute implements Handler
func (f HandlerFunc) Execute(ctx context.Context, args *Arguments) (any, error) {
	return f(ctx, args)
}

// Arguments captures parsed CLI arguments and flags
type Arguments struct {
	Flags map[string]any
	Args  []string
	CLI   *cli.CLI
	cmd   *cobra.Command
}

// GetCmd returns the cobra command for access to flag parsing utilities
func (a *Arguments) GetCmd() *cobra.Command {
	return a.cmd
}

// Command wraps common command execution logic.
// validate runs before the CLI is built, so bad flags never open a backend.
// Returns a cobra RunE compatible function
func Command(handler Handler, validate func(*cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		// Get formatter from flags
		jsonOutput, _ := cmd.Flags().GetBool("json")
		quietMode, _ := cmd.Flags().GetBool("quiet")
		formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

		if err := validate(cmd); err != nil {
			return cli.HandleError(formatter, err)
		}

		// Initialize CLI
		cliInstance, release, err := cli.GetCLIFromContext(cmd)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
		defer func() {
			if err := release(); err != nil {
				slog.Error("Error closing CLI", "error", err)
			}
		}()

		// Build arguments map from all flags
		arguments := &Arguments{
			Flags: parseFlagsToMap(cmd),
			Args:  args,
			CLI:   cliInstance,
			cmd:   cmd,
		}

		// Execute handler
		result, err := handler.Execute(ctx, arguments)
		if err != nil {
			return cli.HandleError(formatter, err)
		}

		// Common output formatting
		return formatter.Success(result)
	}
}

// ListCommand wraps a command that operates on one list; the list id must
// resolve from --list or LISTCTL_LIST before anything else happens
func ListCommand(handler Handler) func(*cobra.Command, []string) error {
	return Command(handler, func(cmd *cobra.Command) error {
		_, err := cli.GetListID(cmd)
		return err
	})
}

// parseFlagsToMap converts cobra command flags to a map
func parseFlagsToMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	// Visit all flags that were explicitly set
	cmd.Flags().Visit(func(f *pflag.Flag) {
		// Get the value based on flag type
		switch f.Value.Type() {
		case "string":
			if v, err := cmd.Flags().GetString(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "int":
			if v, err := cmd.Flags().GetInt(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "bool":
			if v, err := cmd.Flags().GetBool(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "stringSlice":
			if v, err := cmd.Flags().GetStringSlice(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "stringArray":
			if v, err := cmd.Flags().GetStringArray(f.Name); err == nil {
				flags[f.Name] = v
			}
		default:
			slog.Debug("unsupported flag type", "flag", f.Name, "type", f.Value.Type())
		}
	})

	return flags
}

// RequireString retrieves a non-blank string flag
func (a *Arguments) RequireString(name string) (string, error) {
	v, ok := a.Flags[name]
	if !ok {
		return "", fmt.Errorf("%w: --%s is required", cli.ErrUsage, name)
	}
	val, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: --%s: expected string, got %T", cli.ErrUsage, name, v)
	}
	if strings.TrimSpace(val) == "" {
		return "", fmt.Errorf("%w: --%s must not be empty", cli.ErrUsage, name)
	}
	return val, nil
}

// GetString retrieves a string flag with default
func (a *Arguments) GetString(name string, defaultVal string) string {
	v, ok := a.Flags[name]
	if !ok {
		return defaultVal
	}
	val, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return val
}
