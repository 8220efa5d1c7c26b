/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package recovery

import (
	"errors"
	iofs "io/fs"
	"strings"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/resolver"
)

// Report severities, highest first.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Report is a classified operation failure with actionable next steps.
type Report struct {
	// Severity is one of the Severity* constants.
	Severity string

	// Message is the underlying error text.
	Message string

	// File is the path the failure concerns, when known.
	File string

	// Suggestions are next steps, most useful first.
	Suggestions []string
}

// ClassifyError turns an operation error into a report. Permission and
// corruption failures rank critical: the tool cannot help until the
// user intervenes. Missing inputs rank high with a command to run.
// Reference problems rank medium; they block consumers, not the tool.
func ClassifyError(err error, file string) *Report {
	if err == nil {
		return nil
	}

	report := &Report{
		Severity: SeverityMedium,
		Message:  err.Error(),
		File:     file,
	}
	msg := err.Error()

	switch {
	case errors.Is(err, iofs.ErrPermission) || strings.Contains(msg, "permission denied"):
		report.Severity = SeverityCritical
		report.Suggestions = []string{
			"check file permissions on the tokens directory",
			"verify the files are not locked by another process",
		}

	case errors.Is(err, document.ErrSourceParse):
		report.Severity = SeverityCritical
		report.Suggestions = []string{
			"check for trailing commas or comments in the JSON",
			"tokensync recover --fix repairs simple syntax defects",
		}

	case errors.Is(err, layout.ErrMissingMetadata), errors.Is(err, layout.ErrMissingThemes):
		report.Severity = SeverityHigh
		report.Suggestions = []string{
			"tokensync recover --fix recreates companion files",
			"re-run tokensync split to rebuild the modular form",
		}

	case errors.Is(err, layout.ErrNotADirectory):
		report.Severity = SeverityHigh
		report.Suggestions = []string{
			"run tokensync split <source> to create the modular form",
			"check the tokens directory path",
		}

	case errors.Is(err, document.ErrSourceRead),
		errors.Is(err, iofs.ErrNotExist),
		strings.Contains(msg, "no such file"):
		report.Severity = SeverityHigh
		report.Suggestions = []string{
			"check the file path",
			"run tokensync split <source> if the modular form was never created",
		}

	case errors.Is(err, document.ErrTargetWrite):
		report.Severity = SeverityHigh
		report.Suggestions = []string{
			"check free space and permissions on the output path",
		}

	case errors.Is(err, ErrUnsafeRollback):
		report.Severity = SeverityHigh
		report.Suggestions = []string{
			"re-run with --force to override the safety check",
		}

	case errors.Is(err, resolver.ErrCircularReference):
		report.Suggestions = []string{
			"break the cycle by giving one token in the chain a concrete value",
		}

	case errors.Is(err, resolver.ErrUnresolvedReference), errors.Is(err, resolver.ErrNotAToken):
		report.Suggestions = []string{
			"tokensync validate lists every unresolved reference",
			"tokensync recover proposes the nearest known paths",
		}

	case errors.Is(err, ErrBackupNotFound):
		report.Suggestions = []string{
			"tokensync backup list shows the available backup ids",
		}

	case errors.Is(err, ErrNothingToBackUp):
		report.Severity = SeverityLow
		report.Suggestions = []string{
			"nothing existed at the path yet, so there was nothing to save",
		}
	}

	return report
}
