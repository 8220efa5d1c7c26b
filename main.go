/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Command tokensync keeps the consolidated and modular forms of a
// design token collection in sync.
package main

import (
	"os"

	"bennypowers.dev/tokensync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
