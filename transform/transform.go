/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package transform converts between the two canonical shapes of a
// design token collection: the consolidated document (one JSON file)
// and the modular form (companion files plus one file per token set).
// Both directions report through result structs; fatal problems also
// come back as errors so callers can classify them.
package transform

import (
	"strings"

	"bennypowers.dev/tokensync/recovery"
	"bennypowers.dev/tokensync/token"
)

// Options tune a transformation run.
type Options struct {
	// Rules replace the built-in set classification table. Empty means
	// the default table.
	Rules []Rule

	// Backups, when set, saves the pre-write state of the target
	// before anything is overwritten.
	Backups *recovery.Manager

	// SessionID tags backups made during this run.
	SessionID string
}

func (o Options) rules() []Rule {
	if len(o.Rules) > 0 {
		return o.Rules
	}
	return DefaultRules()
}

func (o Options) backupMetadata() map[string]string {
	if o.SessionID == "" {
		return nil
	}
	return map[string]string{"session": o.SessionID}
}

// SplitResult reports a consolidated-to-modular run.
type SplitResult struct {
	// Success is false when nothing was written.
	Success bool

	// Sets are the identified set names in tokenSetOrder.
	Sets []string

	// Files are the basenames written: companions first, then set
	// files in order.
	Files []string

	// TokensCount is the number of leaf tokens written.
	TokensCount int

	// Errors are fatal problems, Warnings the survivable ones.
	Errors   []string
	Warnings []string

	// BackupID names the pre-write backup, when one was taken.
	BackupID string
}

// ConsolidateResult reports a modular-to-consolidated run.
type ConsolidateResult struct {
	// Success is false when nothing was written.
	Success bool

	// Sets are the set names that contributed to the merge.
	Sets []string

	// TokensCount is the number of leaf tokens in the written document.
	TokensCount int

	// Errors are fatal problems, Warnings the survivable ones.
	Errors   []string
	Warnings []string

	// BackupID names the backup of the previous document, when one was
	// taken.
	BackupID string
}

// NormalizeTree rewrites every token node under node into canonical
// $-prefixed form. Group metadata and opaque values pass through
// verbatim.
func NormalizeTree(node map[string]any) map[string]any {
	if token.IsToken(node) {
		return token.Normalize(node)
	}
	out := make(map[string]any, len(node))
	for key, value := range node {
		child, ok := value.(map[string]any)
		if !ok || strings.HasPrefix(key, "$") {
			out[key] = value
			continue
		}
		out[key] = NormalizeTree(child)
	}
	return out
}
