// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Command crslctl is a thin operational CLI over the CRSL engine: commit
// operations against a genesis and inspect its current state and history.
// It deliberately does not implement repository-directory initialization
// or human-readable history rendering, both external collaborators per
// spec §1.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
