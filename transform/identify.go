/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package transform

import (
	"fmt"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/token"
)

// SetSummary describes one set a split would produce.
type SetSummary struct {
	// Name is the set name as it would appear in tokenSetOrder.
	Name string

	// File is the basename the set would be written to. Empty when the
	// set is listed in tokenSetOrder but the document has no content
	// for it.
	File string

	// TokensCount is the number of leaf tokens the set carries.
	TokensCount int
}

// IdentifySets reports the sets a split of the document at sourcePath
// would produce, in order, without writing anything. Documents that
// carry their own tokenSetOrder pass through; others are classified
// by top-level group name.
func IdentifySets(filesystem fs.FileSystem, sourcePath string, opts Options) ([]SetSummary, error) {
	tree, err := document.Read(filesystem, sourcePath)
	if err != nil {
		return nil, err
	}
	meta, _, _, err := companionEntries(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourcePath, err)
	}

	plan := planSets(tree, meta, opts.rules(), &SplitResult{})

	var sets []SetSummary
	for _, set := range plan.order {
		summary := SetSummary{Name: set}
		if setTree, ok := plan.trees[set]; ok {
			summary.File = layout.SetFileName(set)
			summary.TokensCount = token.Count(setTree)
		}
		sets = append(sets, summary)
	}
	return sets, nil
}
