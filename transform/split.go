/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package transform

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/recovery"
	"bennypowers.dev/tokensync/token"
)

// splitPlan is the worked-out shape of a split: which sets exist, what
// each contains, and the tokenSetOrder to record. Order entries without
// a tree are kept for metadata fidelity but produce no file.
type splitPlan struct {
	order []string
	trees map[string]map[string]any
}

func (p *splitPlan) inject(set, key string, value any) {
	tree := p.trees[set]
	if tree == nil {
		tree = map[string]any{}
		p.trees[set] = tree
	}
	tree[key] = value
}

// Split reads the consolidated document at sourcePath and writes the
// modular form into outDir: $metadata.json, $themes.json, and one file
// per token set. Token nodes are rewritten into canonical $-prefixed
// form, with types inferred where the source omitted them.
//
// When the document carries its own tokenSetOrder, the top-level keys
// are taken as set names and pass through under that order. Otherwise
// each top-level group is classified into a set by name (core, global,
// components, and so on) and the order is derived. A theme list is
// derived only when the document has no $themes entry at all.
//
// Fatal problems are recorded on the result and returned as an error;
// survivable ones (backup failure, derived themes, name collisions)
// are recorded as warnings.
func Split(filesystem fs.FileSystem, sourcePath, outDir string, opts Options) (*SplitResult, error) {
	result := &SplitResult{}

	tree, err := document.Read(filesystem, sourcePath)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	meta, themes, hasThemes, err := companionEntries(tree)
	if err != nil {
		err = fmt.Errorf("%s: %w", sourcePath, err)
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	plan := planSets(tree, meta, opts.rules(), result)
	result.Sets = plan.order

	if opts.Backups != nil {
		backup, err := opts.Backups.CreateBackup("split", outDir, opts.backupMetadata())
		switch {
		case err == nil:
			result.BackupID = backup.ID
		case errors.Is(err, recovery.ErrNothingToBackUp):
			// First run against this directory; nothing to save.
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("backup of %s failed: %v", outDir, err))
		}
	}

	if err := filesystem.MkdirAll(outDir, 0755); err != nil {
		err = fmt.Errorf("%w: %s: %v", document.ErrTargetWrite, outDir, err)
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	// Sanitization can map two set names to the same basename; the
	// later set merges into the earlier file rather than clobbering it.
	var fileNames []string
	fileTrees := map[string]map[string]any{}
	for _, set := range plan.order {
		setTree, ok := plan.trees[set]
		if !ok {
			continue
		}
		name := layout.SetFileName(set)
		normalized := NormalizeTree(setTree)
		if existing, ok := fileTrees[name]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("set %q shares file %s with an earlier set; contents merged", set, name))
			fileTrees[name] = document.DeepMerge(existing, normalized)
			continue
		}
		fileTrees[name] = normalized
		fileNames = append(fileNames, name)
	}

	outMeta := &token.Metadata{TokenSetOrder: plan.order}
	if meta != nil {
		outMeta.Extra = meta.Extra
	}
	if err := layout.WriteMetadata(filesystem, outDir, outMeta); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	result.Files = append(result.Files, token.MetadataFile)

	if !hasThemes {
		themes = deriveThemes(plan)
		if len(themes) > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("no theme definitions in %s; derived %d default theme(s)", sourcePath, len(themes)))
		}
	}
	if err := layout.WriteThemes(filesystem, outDir, themes); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	result.Files = append(result.Files, token.ThemesFile)

	for _, name := range fileNames {
		path := filepath.Join(outDir, name)
		if err := document.Write(filesystem, path, fileTrees[name]); err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result, err
		}
		result.Files = append(result.Files, name)
		result.TokensCount += token.Count(fileTrees[name])
	}

	if len(fileNames) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s contains no token sets", sourcePath))
	}

	result.Success = true
	return result, nil
}

// companionEntries pulls the reserved $metadata and $themes entries out
// of a consolidated document. Absent entries are fine; present entries
// with the wrong shape are not.
func companionEntries(tree map[string]any) (*token.Metadata, []*token.Theme, bool, error) {
	var meta *token.Metadata
	if raw, ok := tree[token.MetadataKey]; ok {
		m, err := token.MetadataFromValue(raw)
		if err != nil {
			return nil, nil, false, err
		}
		meta = m
	}

	var themes []*token.Theme
	raw, hasThemes := tree[token.ThemesKey]
	if hasThemes {
		t, err := token.ThemesFromValue(raw)
		if err != nil {
			return nil, nil, false, err
		}
		themes = t
	}
	return meta, themes, hasThemes, nil
}

// planSets decides which set each top-level entry belongs to.
//
// A document whose tokenSetOrder names its own top-level keys is
// pre-decomposed: every top-level key is a set. Entries listed but
// missing from the document are kept in the order (a partially edited
// document should not lose its ordering), duplicates are dropped, and
// unlisted keys are appended. Otherwise top-level groups are classified
// by name and nested under their original key inside the chosen set,
// so consolidation puts them back where they started.
func planSets(tree map[string]any, meta *token.Metadata, rules []Rule, result *SplitResult) *splitPlan {
	plan := &splitPlan{trees: map[string]map[string]any{}}

	var entries []string
	for key := range tree {
		if key == token.MetadataKey || key == token.ThemesKey {
			continue
		}
		entries = append(entries, key)
	}
	sort.Strings(entries)

	if preDecomposed(meta, entries) {
		seen := map[string]bool{}
		for _, set := range meta.TokenSetOrder {
			if seen[set] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("tokenSetOrder lists %q more than once; keeping the first", set))
				continue
			}
			seen[set] = true
			plan.order = append(plan.order, set)

			value, ok := tree[set]
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("tokenSetOrder lists %q but the document has no such entry", set))
				continue
			}
			if subtree, ok := value.(map[string]any); ok {
				plan.trees[set] = subtree
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("set %q is not a group; kept under its own key", set))
				plan.inject(set, set, value)
			}
		}
		for _, key := range entries {
			if seen[key] {
				continue
			}
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("top-level entry %q missing from tokenSetOrder; appended", key))
			plan.order = append(plan.order, key)
			if subtree, ok := tree[key].(map[string]any); ok {
				plan.trees[key] = subtree
			} else {
				plan.inject(key, key, tree[key])
			}
		}
		return plan
	}

	if meta != nil && len(meta.TokenSetOrder) > 0 {
		result.Warnings = append(result.Warnings,
			"tokenSetOrder matches none of the document's top-level keys; sets re-identified by name")
	}

	for _, key := range entries {
		set := ClassifySet(key, rules)
		if _, ok := tree[key].(map[string]any); !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("top-level entry %q is not a group; carried in set %q", key, set))
		}
		plan.inject(set, key, tree[key])
	}

	inOrder := map[string]bool{}
	for _, set := range setPrecedence {
		if _, ok := plan.trees[set]; ok {
			plan.order = append(plan.order, set)
			inOrder[set] = true
		}
	}
	var rest []string
	for set := range plan.trees {
		if !inOrder[set] {
			rest = append(rest, set)
		}
	}
	sort.Strings(rest)
	plan.order = append(plan.order, rest...)
	return plan
}

// preDecomposed reports whether the document's top-level keys should be
// taken as set names. A carried tokenSetOrder is only trusted when it
// corresponds to the document: a consolidated merge of classified sets
// carries an order too, but its top-level keys are token groups, and
// re-splitting it has to classify again rather than invent one set per
// group.
func preDecomposed(meta *token.Metadata, entries []string) bool {
	if meta == nil || len(meta.TokenSetOrder) == 0 {
		return false
	}
	if len(entries) == 0 {
		return true
	}
	listed := map[string]bool{}
	for _, set := range meta.TokenSetOrder {
		listed[set] = true
	}
	for _, key := range entries {
		if listed[key] {
			return true
		}
	}
	return false
}

// deriveThemes builds a minimal theme list for documents that never
// declared one: a theme per set, layering everything before it as
// source material. Order entries without a backing file are skipped so
// the derived themes never reference a file that was not written.
func deriveThemes(plan *splitPlan) []*token.Theme {
	var sets []string
	for _, set := range plan.order {
		if _, ok := plan.trees[set]; ok {
			sets = append(sets, set)
		}
	}

	caser := cases.Title(language.English)
	themes := make([]*token.Theme, 0, len(sets))
	for i, set := range sets {
		selected := make(map[string]token.ThemeMode, len(sets))
		for j, other := range sets {
			switch {
			case j < i:
				selected[other] = token.ModeSource
			case j == i:
				selected[other] = token.ModeEnabled
			default:
				selected[other] = token.ModeDisabled
			}
		}
		id := token.SanitizeSetName(set)
		themes = append(themes, &token.Theme{
			ID:                id,
			Name:              caser.String(strings.ReplaceAll(id, "-", " ")),
			SelectedTokenSets: selected,
		})
	}
	return themes
}
