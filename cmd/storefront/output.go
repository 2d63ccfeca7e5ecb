package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatAuto, formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported --format %q (want auto, table, or json)", format)
	}
}

// wantJSON reports whether output should be JSON. Auto picks JSON whenever
// stdout is not a terminal.
func wantJSON(cmd *cobra.Command, format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatJSON:
		return true
	case formatTable:
		return false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return true
	}
	fd := file.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
