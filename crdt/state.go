// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package crdt

import (
	"context"
	"sort"

	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/errors"
)

// State is a genesis's projected value, or absence if the winning operation
// was a delete.
type State struct {
	Genesis cid.ID
	Value   any
	Present bool
	Winner  *Operation
}

// Projector reduces an operation log into a State (spec §4.5).
type Projector struct {
	store OperationStore
}

// NewProjector wraps store in LWW projection.
func NewProjector(store OperationStore) *Projector {
	return &Projector{store: store}
}

// Apply appends op to the log. Callers are expected to have already
// rejected caller-submitted KindMerge (spec §6); the repository layer
// enforces that, not this package.
func (p *Projector) Apply(ctx context.Context, op *Operation) error {
	if op.ID.IsZero() {
		id, err := op.ComputeID()
		if err != nil {
			return errors.ErrSerialization.Wrap(err)
		}
		op.ID = id
	}
	if err := p.store.Append(ctx, op); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}

// GetOperationsByGenesis returns every operation recorded against genesis,
// sorted ascending by (timestamp, author, id).
func (p *Projector) GetOperationsByGenesis(ctx context.Context, genesis cid.ID) ([]*Operation, error) {
	ops, err := p.store.LoadByGenesis(ctx, genesis)
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Less(ops[j])
	})
	return ops, nil
}

// GetState projects genesis's operation log into its current LWW state. An
// empty log yields Present=false with a nil Winner.
func (p *Projector) GetState(ctx context.Context, genesis cid.ID) (*State, error) {
	ops, err := p.GetOperationsByGenesis(ctx, genesis)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return &State{Genesis: genesis, Present: false}, nil
	}

	latest := ops[len(ops)-1]

	state := &State{
		Genesis: genesis,
		Winner:  latest,
	}
	if latest.Kind != KindDelete {
		state.Present = true
		state.Value = latest.Payload
	}
	return state, nil
}
