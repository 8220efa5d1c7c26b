/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package recovery_test

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"testing"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/recovery"
	"bennypowers.dev/tokensync/resolver"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		severity string
	}{
		{
			name:     "permission denied",
			err:      fmt.Errorf("open tokens/core.json: %w", iofs.ErrPermission),
			severity: recovery.SeverityCritical,
		},
		{
			name:     "corrupt json",
			err:      fmt.Errorf("%w: core.json: unexpected end of input", document.ErrSourceParse),
			severity: recovery.SeverityCritical,
		},
		{
			name:     "missing metadata",
			err:      fmt.Errorf("%w: tokens/$metadata.json", layout.ErrMissingMetadata),
			severity: recovery.SeverityHigh,
		},
		{
			name:     "missing source",
			err:      fmt.Errorf("%w: tokens.json: no such file", document.ErrSourceRead),
			severity: recovery.SeverityHigh,
		},
		{
			name:     "unsafe rollback",
			err:      fmt.Errorf("%w: parent missing", recovery.ErrUnsafeRollback),
			severity: recovery.SeverityHigh,
		},
		{
			name:     "circular reference",
			err:      fmt.Errorf("%w: a -> b -> a", resolver.ErrCircularReference),
			severity: recovery.SeverityMedium,
		},
		{
			name:     "unresolved reference",
			err:      fmt.Errorf("%w: {color.missing}", resolver.ErrUnresolvedReference),
			severity: recovery.SeverityMedium,
		},
		{
			name:     "nothing to back up",
			err:      fmt.Errorf("%w: tokens", recovery.ErrNothingToBackUp),
			severity: recovery.SeverityLow,
		},
		{
			name:     "unknown error",
			err:      errors.New("something odd"),
			severity: recovery.SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := recovery.ClassifyError(tt.err, "tokens")
			if report.Severity != tt.severity {
				t.Errorf("severity = %q, want %q", report.Severity, tt.severity)
			}
			if report.Message == "" {
				t.Error("expected message")
			}
		})
	}
}

func TestClassifyError_Suggestions(t *testing.T) {
	report := recovery.ClassifyError(
		fmt.Errorf("%w: tokens/$metadata.json", layout.ErrMissingMetadata), "tokens")

	if len(report.Suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	found := false
	for _, s := range report.Suggestions {
		if s == "tokensync recover --fix recreates companion files" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected recover suggestion, got %v", report.Suggestions)
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if report := recovery.ClassifyError(nil, ""); report != nil {
		t.Errorf("expected nil report for nil error, got %+v", report)
	}
}
