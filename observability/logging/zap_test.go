// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monas-project/crsl/observability/logging"
)

func TestZapLogger_BuildsAndLogsWithoutPanicking(t *testing.T) {
	zl, err := logging.NewZapLogger(logging.LevelInfo)
	require.NoError(t, err)

	zl.Info(context.Background(), "committed", logging.String("genesis", "abc"))
	child := zl.With(logging.String("component", "repo"))
	child.Debug(context.Background(), "below level, should be filtered")
}
