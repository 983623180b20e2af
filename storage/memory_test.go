// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/storage"
)

func TestMemoryNodeStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryNodeStore()

	node := &graph.Node{Payload: "hello", Timestamp: 1}
	id, err := node.ComputeCID()
	require.NoError(t, err)
	node.CID = id

	require.NoError(t, s.Put(ctx, node))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Payload)
}

func TestMemoryNodeStore_GetUnknownReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryNodeStore()

	got, err := s.Get(ctx, cid.MustOf([]byte("missing")))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryNodeStore_NodesByGenesisTracksChildren(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryNodeStore()

	genesis := &graph.Node{Payload: "g", Timestamp: 1}
	genesisID, err := genesis.ComputeCID()
	require.NoError(t, err)
	genesis.CID = genesisID
	require.NoError(t, s.Put(ctx, genesis))

	child := &graph.Node{Payload: "c", Parents: []cid.ID{genesisID}, Genesis: &genesisID, Timestamp: 2}
	childID, err := child.ComputeCID()
	require.NoError(t, err)
	child.CID = childID
	require.NoError(t, s.Put(ctx, child))

	ids, err := s.NodesByGenesis(ctx, genesisID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []cid.ID{genesisID, childID}, ids)
}

func TestMemoryOperationStore_AppendLoadByGenesis(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryOperationStore()
	genesis := cid.MustOf([]byte("g"))

	op1 := &crdt.Operation{Genesis: genesis, Kind: crdt.KindCreate, Payload: "v0", Timestamp: 100, Author: "a"}
	id1, err := op1.ComputeID()
	require.NoError(t, err)
	op1.ID = id1
	require.NoError(t, s.Append(ctx, op1))

	op2 := &crdt.Operation{Genesis: genesis, Kind: crdt.KindUpdate, Payload: "v1", Timestamp: 200, Author: "a"}
	id2, err := op2.ComputeID()
	require.NoError(t, err)
	op2.ID = id2
	require.NoError(t, s.Append(ctx, op2))

	ops, err := s.LoadByGenesis(ctx, genesis)
	require.NoError(t, err)
	assert.Len(t, ops, 2)

	got, err := s.Get(ctx, id1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v0", got.Payload)
}
