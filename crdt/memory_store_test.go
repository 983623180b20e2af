// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package crdt_test

import (
	"context"
	"sync"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/pkg/cid"
)

// testStore is a minimal in-memory OperationStore used only by this
// package's tests.
type testStore struct {
	mu  sync.Mutex
	ops map[cid.ID]*crdt.Operation
}

func newTestStore() *testStore {
	return &testStore{ops: make(map[cid.ID]*crdt.Operation)}
}

func (s *testStore) Append(_ context.Context, op *crdt.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops[op.ID] = op
	return nil
}

func (s *testStore) Get(_ context.Context, id cid.ID) (*crdt.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops[id], nil
}

func (s *testStore) LoadByGenesis(_ context.Context, genesis cid.ID) ([]*crdt.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*crdt.Operation
	for _, op := range s.ops {
		if op.Genesis.Equal(genesis) {
			out = append(out, op)
		}
	}
	return out, nil
}
