package reporter

import (
	"io"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/tinovyatkin/markuplint/internal/rules"
)

// Default SARIF tool information.
const (
	defaultToolName = "markuplint"
	defaultToolURI  = "https://github.com/tinovyatkin/markuplint"
)

// SARIFReporter formats violations as SARIF (Static Analysis Results
// Interchange Format), a standard format for static analysis tools widely
// supported by CI/CD systems including GitHub Code Scanning.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{writer: w, toolName: toolName, toolVersion: toolVersion, toolURI: toolURI}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(violations []rules.Violation, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	ruleSet := make(map[string]rules.Violation)
	fileSet := make(map[string]struct{})

	for _, v := range violations {
		if _, exists := ruleSet[v.RuleID]; !exists {
			ruleSet[v.RuleID] = v
		}
		fileSet[normalizePath(v.Location.File)] = struct{}{}
	}

	ruleIDs := make([]string, 0, len(ruleSet))
	for id := range ruleSet {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	for _, id := range ruleIDs {
		v := ruleSet[id]
		rule := run.AddRule(id)
		if v.RuleName != "" {
			rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(v.RuleName))
		}
		if v.DocURL != "" {
			rule.WithHelpURI(v.DocURL)
		}
	}

	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	for _, v := range violations {
		filePath := normalizePath(v.Location.File)

		result := sarif.NewRuleResult(v.RuleID).
			WithMessage(sarif.NewTextMessage(v.Message)).
			WithLevel(severityToSARIFLevel(v.Severity))

		region := sarif.NewRegion().WithStartLine(v.Location.Start.Line)
		if v.Location.Start.Column >= 0 {
			region.WithStartColumn(v.Location.Start.Column + 1) // SARIF uses 1-based columns
		}
		if v.Location.End.Line > 0 {
			region.WithEndLine(v.Location.End.Line)
			if v.Location.End.Column >= 0 {
				region.WithEndColumn(v.Location.End.Column + 1)
			}
		}
		if v.Snippet != "" {
			region.WithSnippet(sarif.NewArtifactContent().WithText(v.Snippet))
		}

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
			WithRegion(region)

		result.WithLocations([]*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(physicalLocation),
		})

		run.AddResult(result)
	}

	report.AddRun(run)

	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps Severity to SARIF levels: "error", "warning",
// "note" (SeverityInfo and SeverityOff both map to "note").
func severityToSARIFLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return sarifLevelError
	case rules.SeverityWarning:
		return sarifLevelWarning
	case rules.SeverityInfo:
		return sarifLevelNote
	case rules.SeverityOff:
		// a check already excludes an off rule from running at all
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
