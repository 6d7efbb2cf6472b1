// Package reporter provides machine-readable output formatters for check
// results: JSON for scripting and SARIF for CI/CD code-scanning
// integration. Human-readable report formatting is a CLI-surface
// concern, out of scope here.
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tinovyatkin/markuplint/internal/rules"
)

// ReportMetadata contains contextual information about the check run.
type ReportMetadata struct {
	// FilesScanned is the total number of files that were scanned.
	FilesScanned int
	// RulesEnabled is the total number of rules that were active (not "off").
	RulesEnabled int
}

// Reporter formats and outputs violations.
type Reporter interface {
	// Report writes violations to the configured output. The metadata
	// parameter provides context like files scanned and rules enabled.
	Report(violations []rules.Violation, metadata ReportMetadata) error
}

// SortViolations sorts violations by file, start offset, and rule id for
// stable output.
func SortViolations(violations []rules.Violation) []rules.Violation {
	sorted := make([]rules.Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Location.File != sorted[j].Location.File {
			return sorted[i].Location.File < sorted[j].Location.File
		}
		if sorted[i].Location.StartOffset != sorted[j].Location.StartOffset {
			return sorted[i].Location.StartOffset < sorted[j].Location.StartOffset
		}
		return sorted[i].RuleID < sorted[j].RuleID
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
)

// ParseFormat parses a format string into a Format type.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: json, sarif)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	Format Format
	Writer io.Writer

	// ToolVersion, ToolName, and ToolURI are included in SARIF output.
	ToolVersion string
	ToolName    string
	ToolURI     string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatJSON,
		Writer:      os.Stdout,
		ToolName:    "markuplint",
		ToolURI:     "https://github.com/tinovyatkin/markuplint",
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatJSON, "":
		return NewJSONReporter(opts.Writer), nil
	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path. Supports
// "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}

// normalizePath converts path to forward slashes for cross-platform,
// deterministic output.
func normalizePath(path string) string {
	return filepath.ToSlash(path)
}
