/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import "errors"

// Sentinel errors for the token data model.
var (
	// ErrMetadataShape indicates a $metadata entry whose tokenSetOrder
	// is not an array of strings.
	ErrMetadataShape = errors.New("metadata must carry a tokenSetOrder array of strings")

	// ErrThemeShape indicates a $themes entry that is not an array of
	// theme objects with string id/name and a selectedTokenSets map.
	ErrThemeShape = errors.New("theme entry has an invalid shape")

	// ErrMissingValue indicates a token with no $value.
	ErrMissingValue = errors.New("token missing $value")
)
