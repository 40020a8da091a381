// Package handler provides flag parsing utilities
package handler

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/resolver"
)

// FlagParser provides common flag extraction patterns
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// ParseListID extracts the list id from --list or LISTCTL_LIST
func (p *FlagParser) ParseListID() (string, error) {
	return cli.GetListID(p.cmd)
}

// ParseString extracts a required string flag
func (p *FlagParser) ParseString(flagName string) (string, error) {
	value, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: --%s is required", cli.ErrUsage, flagName)
	}
	return value, nil
}

// ParseStringOptional extracts an optional string flag
func (p *FlagParser) ParseStringOptional(flagName string) (string, error) {
	value, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	return strings.TrimSpace(value), nil
}

// ParseBool extracts a boolean flag
func (p *FlagParser) ParseBool(flagName string) (bool, error) {
	return p.cmd.Flags().GetBool(flagName)
}

// ParseIDs extracts a repeatable id flag. Values may also be comma separated;
// blanks are dropped and duplicates keep their first position.
func (p *FlagParser) ParseIDs(flagName string) ([]string, error) {
	raw, err := p.cmd.Flags().GetStringSlice(flagName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}

	var ids []string
	seen := make(map[string]bool)
	for _, v := range raw {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one --%s is required", cli.ErrUsage, flagName)
	}
	return ids, nil
}

// ParseResolveOptions extracts the list id and, when the command defines them,
// --schema-file and --refresh
func (p *FlagParser) ParseResolveOptions() (resolver.Options, error) {
	listID, err := p.ParseListID()
	if err != nil {
		return resolver.Options{}, err
	}
	opts := resolver.Options{ListID: listID}

	if p.cmd.Flags().Lookup("schema-file") != nil {
		if opts.SchemaPath, err = p.ParseStringOptional("schema-file"); err != nil {
			return resolver.Options{}, err
		}
	}
	if p.cmd.Flags().Lookup("refresh") != nil {
		if opts.ForceRefresh, err = p.ParseBool("refresh"); err != nil {
			return resolver.Options{}, err
		}
	}
	return opts, nil
}

// OutputFormats extracts JSON and Quiet output flags
func (p *FlagParser) OutputFormats() (jsonOutput bool, quietMode bool, err error) {
	jsonOutput, err = p.cmd.Flags().GetBool("json")
	if err != nil {
		return false, false, fmt.Errorf("failed to parse json flag: %w", err)
	}

	quietMode, err = p.cmd.Flags().GetBool("quiet")
	if err != nil {
		return false, false, fmt.Errorf("failed to parse quiet flag: %w", err)
	}

	return jsonOutput, quietMode, nil
}
