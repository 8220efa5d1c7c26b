/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokensync/internal/mapfs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/recovery"
)

func TestAttemptRecovery_RecreatesCompanions(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/core.json", `{"color":{"primary":{"$value":"#fff"}}}`, 0644)
	fs.AddFile("tokens/global.json", `{"accent":{"$value":"{color.primary}"}}`, 0644)

	result, err := recovery.AttemptRecovery(fs, "tokens", recovery.RecoveryOptions{AutoFix: true})
	require.NoError(t, err)

	assert.Len(t, result.Fixed, 2)
	assert.Empty(t, result.Remaining)

	// tokenSetOrder was inferred from the files on disk.
	meta, err := layout.ReadMetadata(fs, "tokens")
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "global"}, meta.TokenSetOrder)

	themes, err := layout.ReadThemes(fs, "tokens")
	require.NoError(t, err)
	assert.Empty(t, themes)
}

func TestAttemptRecovery_ReportOnlyWithoutAutoFix(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/core.json", `{}`, 0644)

	result, err := recovery.AttemptRecovery(fs, "tokens", recovery.RecoveryOptions{})
	require.NoError(t, err)

	assert.Empty(t, result.Fixed)
	assert.Len(t, result.Remaining, 2)
	assert.False(t, fs.Exists("tokens/$metadata.json"), "report-only run must not write")
}

func TestAttemptRecovery_RepairsJSON(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/$metadata.json", `{"tokenSetOrder":["core"]}`, 0644)
	fs.AddFile("tokens/$themes.json", `[]`, 0644)
	// Trailing comma and a comment: near-valid, repairable.
	fs.AddFile("tokens/core.json", `{
	// palette
	"color": {
		"primary": {"$value": "#fff"},
	},
}`, 0644)

	result, err := recovery.AttemptRecovery(fs, "tokens", recovery.RecoveryOptions{AutoFix: true})
	require.NoError(t, err)

	require.Len(t, result.Fixed, 1)
	assert.Contains(t, result.Fixed[0], "repaired")

	// The rewritten file parses strictly.
	issues := layout.Inspect(fs, "tokens")
	assert.Empty(t, issues)
}

func TestAttemptRecovery_LeavesTrulyBrokenJSON(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/$metadata.json", `{"tokenSetOrder":["core"]}`, 0644)
	fs.AddFile("tokens/$themes.json", `[]`, 0644)
	fs.AddFile("tokens/core.json", `{"color": {{{`, 0644)

	result, err := recovery.AttemptRecovery(fs, "tokens", recovery.RecoveryOptions{AutoFix: true})
	require.NoError(t, err)

	assert.Empty(t, result.Fixed)
	require.Len(t, result.Remaining, 1)
	assert.Equal(t, layout.IssueInvalidJSON, result.Remaining[0].Code)

	// Untouched: repair must not replace data it cannot parse.
	data, err := fs.ReadFile("tokens/core.json")
	require.NoError(t, err)
	assert.Equal(t, `{"color": {{{`, string(data))
}

func TestAttemptRecovery_SuggestsNearestPath(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/$metadata.json", `{"tokenSetOrder":["core","global"]}`, 0644)
	fs.AddFile("tokens/$themes.json", `[]`, 0644)
	fs.AddFile("tokens/core.json", `{"color":{"primary":{"$value":"#fff"}}}`, 0644)
	fs.AddFile("tokens/global.json", `{"accent":{"$value":"{color.primry}"}}`, 0644)

	result, err := recovery.AttemptRecovery(fs, "tokens", recovery.RecoveryOptions{})
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	suggestion := result.Suggestions[0]
	assert.Equal(t, "accent", suggestion.SourcePath)
	assert.Equal(t, "color.primry", suggestion.Reference)
	assert.Equal(t, "color.primary", suggestion.Candidate)
	assert.Contains(t, suggestion.Message, "did you mean {color.primary}?")

	// Suggestions are proposals; the file stays as written.
	data, err := fs.ReadFile("tokens/global.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "color.primry")
}
