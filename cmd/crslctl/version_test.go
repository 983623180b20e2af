// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"strings"
	"testing"
)

func TestVersionConstants(t *testing.T) {
	if version == "" {
		t.Error("Version constant should not be empty")
	}

	if buildDate == "" {
		t.Error("Build date constant should not be empty")
	}

	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		t.Errorf("Version should be in semantic versioning format, got: %s", version)
	}
}

func TestVersionCmd_HasVerboseFlag(t *testing.T) {
	if versionCmd.Flags().Lookup("verbose") == nil {
		t.Error("Expected version command to have verbose flag")
	}
}
