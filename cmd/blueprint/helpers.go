package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kortex-blueprint/internal/ai"
)

// loadBlueprint reads a blueprint fixture. Files ending in .yaml or .yml are YAML, anything else JSON.
func loadBlueprint(path string) (ai.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ai.Blueprint{}, fmt.Errorf("read blueprint: %w", err)
	}

	var bp ai.Blueprint
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &bp); err != nil {
			return ai.Blueprint{}, fmt.Errorf("decode yaml blueprint: %w", err)
		}
	default:
		bp, err = ai.ParseBlueprint(string(data))
		if err != nil {
			return ai.Blueprint{}, err
		}
	}
	if err := bp.Normalize(); err != nil {
		return ai.Blueprint{}, err
	}
	return bp, nil
}

// writeOutput writes to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path, body string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), body)
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

func marshalBlueprint(bp ai.Blueprint) (string, error) {
	data, err := json.MarshalIndent(bp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode blueprint: %w", err)
	}
	return string(data), nil
}
