package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinovyatkin/markuplint/internal/rules"
)

func TestSARIFReporter(t *testing.T) {
	violations := []rules.Violation{
		{
			Location: rules.Location{
				File:  "index.html",
				Start: rules.Position{Line: 5, Column: 0},
			},
			RuleID:   "img-alt",
			RuleName: "img elements must have an alt attribute",
			Message:  "img element is missing an alt attribute",
			Severity: rules.SeverityWarning,
			DocURL:   "https://github.com/tinovyatkin/markuplint/rules/img-alt",
		},
		{
			Location: rules.Location{
				File:  "index.html",
				Start: rules.Position{Line: 10, Column: 0},
			},
			RuleID:   "no-autofocus",
			Message:  "avoid the autofocus attribute",
			Severity: rules.SeverityError,
		},
	}

	var buf bytes.Buffer
	reporter := NewSARIFReporter(&buf, "markuplint", "1.0.0", "https://github.com/tinovyatkin/markuplint")

	err := reporter.Report(violations, ReportMetadata{})
	require.NoError(t, err)

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif))

	require.NotNil(t, sarif["$schema"])
	require.Equal(t, "2.1.0", sarif["version"])

	runs, ok := sarif["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)

	run, ok := runs[0].(map[string]any)
	require.True(t, ok)

	tool, ok := run["tool"].(map[string]any)
	require.True(t, ok)
	driver, ok := tool["driver"].(map[string]any)
	require.True(t, ok)

	require.Equal(t, "markuplint", driver["name"])
	require.Equal(t, "1.0.0", driver["version"])

	results, ok := run["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	result1, ok := results[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "img-alt", result1["ruleId"])
	require.Equal(t, "warning", result1["level"])

	result2, ok := results[1].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "no-autofocus", result2["ruleId"])
	require.Equal(t, "error", result2["level"])
}

func TestSARIFReporterSeverityMapping(t *testing.T) {
	tests := []struct {
		severity rules.Severity
		expected string
	}{
		{rules.SeverityError, "error"},
		{rules.SeverityWarning, "warning"},
		{rules.SeverityInfo, "note"},
		{rules.SeverityOff, "note"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, severityToSARIFLevel(tt.severity))
		})
	}
}

func TestSARIFReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewSARIFReporter(&buf, "markuplint", "1.0.0", "")

	err := reporter.Report(nil, ReportMetadata{})
	require.NoError(t, err)

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif))

	runs, ok := sarif["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)

	run, ok := runs[0].(map[string]any)
	require.True(t, ok)

	results, ok := run["results"].([]any)
	require.True(t, ok)
	require.Empty(t, results)
}

func TestSARIFReporterColumnZero(t *testing.T) {
	// Verify that column 0 (0-based) maps to SARIF column 1 (1-based)
	violations := []rules.Violation{
		{
			Location: rules.Location{
				File:  "index.html",
				Start: rules.Position{Line: 1, Column: 0},
			},
			RuleID:   "test-rule",
			Message:  "column zero test",
			Severity: rules.SeverityWarning,
		},
	}

	var buf bytes.Buffer
	reporter := NewSARIFReporter(&buf, "markuplint", "1.0.0", "")

	err := reporter.Report(violations, ReportMetadata{})
	require.NoError(t, err)

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif))

	runs, ok := sarif["runs"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, runs)
	run, ok := runs[0].(map[string]any)
	require.True(t, ok)
	results, ok := run["results"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, results)
	result, ok := results[0].(map[string]any)
	require.True(t, ok)
	locations, ok := result["locations"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, locations)
	location, ok := locations[0].(map[string]any)
	require.True(t, ok)
	physicalLocation, ok := location["physicalLocation"].(map[string]any)
	require.True(t, ok)
	region, ok := physicalLocation["region"].(map[string]any)
	require.True(t, ok)

	startColumn, ok := region["startColumn"].(float64)
	require.True(t, ok)
	require.Equal(t, float64(1), startColumn)
}

func TestSARIFReporterDeduplicatesRules(t *testing.T) {
	violations := []rules.Violation{
		{
			Location: rules.Location{File: "a.html", Start: rules.Position{Line: 1, Column: 0}},
			RuleID:   "img-alt",
			Message:  "missing alt",
			Severity: rules.SeverityWarning,
		},
		{
			Location: rules.Location{File: "a.html", Start: rules.Position{Line: 2, Column: 0}},
			RuleID:   "img-alt",
			Message:  "missing alt again",
			Severity: rules.SeverityWarning,
		},
	}

	var buf bytes.Buffer
	reporter := NewSARIFReporter(&buf, "markuplint", "1.0.0", "")

	err := reporter.Report(violations, ReportMetadata{})
	require.NoError(t, err)

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif))

	runs := sarif["runs"].([]any)
	run := runs[0].(map[string]any)
	tool := run["tool"].(map[string]any)
	driver := tool["driver"].(map[string]any)
	rulesArr, ok := driver["rules"].([]any)
	require.True(t, ok)
	require.Len(t, rulesArr, 1)
}
