/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger is the shared diagnostic log for conditions that are
// worth reporting but must not fail an operation, such as a skipped
// backup prune. Output goes to stderr; callers embedding tokensync as
// a library can silence it with SetOutput(io.Discard).
package logger

import (
	"io"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "", 0)

// SetOutput redirects all diagnostic output.
func SetOutput(w io.Writer) {
	logger = log.New(w, "", 0)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	logger.Printf("warning: "+format, args...)
}
