// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package crdt

import (
	"context"

	"github.com/monas-project/crsl/pkg/cid"
)

// OperationStore is the persistence contract for the CRDT log. Append order
// is not assumed to reflect causal or timestamp order; callers must sort
// with Operation.Less before projecting.
type OperationStore interface {
	// Append records op under its own ID. Appending the same ID twice with
	// a byte-equal operation is a no-op success.
	Append(ctx context.Context, op *Operation) error

	// LoadByGenesis returns every operation recorded against genesis, in
	// unspecified order.
	LoadByGenesis(ctx context.Context, genesis cid.ID) ([]*Operation, error)

	// Get returns the stored operation for id, or (nil, nil) if unknown.
	Get(ctx context.Context, id cid.ID) (*Operation, error)
}
