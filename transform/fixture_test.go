/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokensync/testutil"
	"bennypowers.dev/tokensync/transform"
)

// TestRoundTripFixture runs a realistic document through both
// directions and compares the re-consolidated result against a golden
// file. Regenerate the golden with go test -run RoundTripFixture -update.
func TestRoundTripFixture(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/roundtrip", "/project")

	split, err := transform.Split(mfs, "/project/design.json", "/project/tokens", transform.Options{})
	require.NoError(t, err)
	assert.True(t, split.Success)
	assert.Equal(t, []string{"core", "semantic", "components"}, split.Sets)
	assert.Equal(t,
		[]string{"$metadata.json", "$themes.json", "core.json", "semantic.json", "components.json"},
		split.Files)
	assert.Equal(t, 13, split.TokensCount)
	assert.Empty(t, split.Warnings)

	consolidated, err := transform.Consolidate(mfs, "/project/tokens", "/project/out.json", transform.Options{})
	require.NoError(t, err)
	assert.True(t, consolidated.Success)
	assert.Equal(t, split.Sets, consolidated.Sets)
	assert.Equal(t, split.TokensCount, consolidated.TokensCount)
	assert.Empty(t, consolidated.Warnings)

	actual, err := mfs.ReadFile("/project/out.json")
	require.NoError(t, err)

	testutil.UpdateGoldenFile(t, "fixtures/roundtrip/consolidated.json", actual)
	expected := testutil.LoadFixtureFile(t, "fixtures/roundtrip/consolidated.json")
	assert.JSONEq(t, string(expected), string(actual))
}
