package reporter

import (
	"encoding/json"
	"io"

	"github.com/tinovyatkin/markuplint/internal/rules"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	Files        []FileResult `json:"files"`
	Summary      Summary      `json:"summary"`
	FilesScanned int          `json:"files_scanned"`
	RulesEnabled int          `json:"rules_enabled"`
}

// FileResult contains the check results for a single file.
type FileResult struct {
	File       string            `json:"file"`
	Violations []rules.Violation `json:"violations"`
}

// Summary contains aggregate statistics about violations.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Files    int `json:"files"`
}

// JSONReporter formats violations as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(violations []rules.Violation, metadata ReportMetadata) error {
	byFile := make(map[string][]rules.Violation)
	filesOrder := make([]string, 0)

	for _, v := range SortViolations(violations) {
		v.Location.File = normalizePath(v.Location.File)
		file := v.Location.File
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], v)
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(violations, len(filesOrder)),
		FilesScanned: metadata.FilesScanned,
		RulesEnabled: metadata.RulesEnabled,
	}

	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{File: file, Violations: byFile[file]})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from violations.
func calculateSummary(violations []rules.Violation, fileCount int) Summary {
	summary := Summary{Total: len(violations), Files: fileCount}

	for _, v := range violations {
		switch v.Severity {
		case rules.SeverityError:
			summary.Errors++
		case rules.SeverityWarning:
			summary.Warnings++
		case rules.SeverityInfo:
			summary.Info++
		case rules.SeverityOff:
			// a check already excludes an off rule from running at all
		}
	}

	return summary
}
