// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package repo implements the orchestrator that ties the DAG, the CRDT
// operation log, and the convergence resolver into a single commit
// surface: materialize a node, append the operation, and auto-merge
// diverging heads before the commit returns (spec §4.7).
package repo

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/monas-project/crsl/convergence"
	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/observability/logging"
	"github.com/monas-project/crsl/observability/metrics"
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/errors"
)

// Repository orchestrates commits against a single content document space.
// Calls to CommitOperation against a given instance are serialized
// (spec §5) by an internal mutex — mirroring the
// single-writer, copy-on-read discipline used elsewhere in this codebase
// for in-memory orchestration state. Distinct Repository instances may
// share the same NodeStore/OperationStore pair (spec §5 allows multiple
// workers against shared storage); this Repository derives everything it
// needs for auto-merge from that shared storage rather than from
// process-local state, so it works correctly whether or not the heads it
// finds were written by this instance or a sibling one.
type Repository struct {
	mu sync.Mutex

	graph     *graph.Graph
	projector *crdt.Projector
	resolver  *convergence.ConflictResolver

	logger  logging.Logger
	metrics *metrics.RepoMetrics
}

// Option configures a Repository at construction.
type Option func(*Repository)

// WithLogger overrides the default logger, an info-level StructuredLogger
// writing to stdout.
func WithLogger(logger logging.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithMetrics overrides the default no-op metrics sink.
func WithMetrics(m *metrics.RepoMetrics) Option {
	return func(r *Repository) { r.metrics = m }
}

// New wires a Graph, a Projector, and a ConflictResolver into a Repository.
// The three would normally share the same NodeStore/OperationStore pair.
func New(g *graph.Graph, p *crdt.Projector, resolver *convergence.ConflictResolver, opts ...Option) *Repository {
	r := &Repository{
		graph:     g,
		projector: p,
		resolver:  resolver,
		logger:    logging.NewStructuredLogger(logging.LevelInfo),
		metrics:   metrics.NewRepoMetrics(metrics.NewNoopCollector()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CommitOperation materializes op as a DAG node, appends it to the CRDT
// log, and auto-merges any resulting divergence before returning. Merge
// operations may only be produced by auto-merge; a caller-submitted one is
// rejected (spec §6 scenario c).
func (r *Repository) CommitOperation(ctx context.Context, op *Operation) (cid.ID, error) {
	if op.Kind == crdt.KindMerge {
		return cid.ID{}, errors.ErrMergeFromCaller
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	nodeID, err := r.commitOperationInternal(ctx, op, false)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	r.metrics.RecordCommit(string(op.Kind), outcome, time.Since(start).Seconds())
	return nodeID, err
}

// commitOperationInternal performs one DAG write plus one CRDT append, and,
// unless skipAutoMerge is set, checks for and resolves divergence. Called
// with the Repository's lock already held.
func (r *Repository) commitOperationInternal(ctx context.Context, op *Operation, skipAutoMerge bool) (cid.ID, error) {
	var nodeID cid.ID
	var err error

	switch op.Kind {
	case crdt.KindCreate:
		nodeID, err = r.graph.AddGenesisNode(ctx, op.Payload, contentMetadata(op.PolicyType), op.Timestamp)
		if err != nil {
			return cid.ID{}, err
		}
		op.Genesis = nodeID

	case crdt.KindUpdate:
		parents, perr := r.getLatestParents(ctx, op.Genesis)
		if perr != nil {
			return cid.ID{}, perr
		}
		if len(parents) == 0 {
			return cid.ID{}, errors.ErrEmptyGenesis
		}
		nodeID, err = r.graph.AddChildNode(ctx, op.Payload, parents, op.Genesis, contentMetadata(""), op.Timestamp)
		if err != nil {
			return cid.ID{}, err
		}

	case crdt.KindDelete:
		lastPayload, lerr := r.lastNonDeletePayload(ctx, op.Genesis)
		if lerr != nil {
			return cid.ID{}, lerr
		}
		parents, perr := r.getLatestParents(ctx, op.Genesis)
		if perr != nil {
			return cid.ID{}, perr
		}
		if len(parents) == 0 {
			return cid.ID{}, errors.ErrEmptyGenesis
		}
		nodeID, err = r.graph.AddChildNode(ctx, lastPayload, parents, op.Genesis, contentMetadata(""), op.Timestamp)
		if err != nil {
			return cid.ID{}, err
		}

	case crdt.KindMerge:
		parents, herr := r.findHeads(ctx, op.Genesis)
		if herr != nil {
			return cid.ID{}, herr
		}
		nodeID, err = r.graph.AddChildNode(ctx, op.Payload, parents, op.Genesis, contentMetadata(""), op.Timestamp)
		if err != nil {
			return cid.ID{}, err
		}

	default:
		return cid.ID{}, errors.ErrInternal.WithDetail("kind", string(op.Kind))
	}

	entry := op.toOperationLogEntry()
	if err := r.projector.Apply(ctx, entry); err != nil {
		return cid.ID{}, err
	}
	r.metrics.RecordNodeStored()

	r.logger.Debug(ctx, "committed operation",
		logging.String("genesis", op.Genesis.String()),
		logging.String("node", nodeID.String()),
		logging.String("kind", string(op.Kind)),
	)

	if !skipAutoMerge {
		if _, err := r.checkAndMerge(ctx, op.Genesis); err != nil {
			return cid.ID{}, err
		}
	}

	return nodeID, nil
}

// findHeads returns the CIDs of every leaf node belonging to genesis.
func (r *Repository) findHeads(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	nodes, err := r.graph.GetNodesByGenesis(ctx, genesis)
	if err != nil {
		return nil, err
	}
	leaves, err := r.graph.CollectLeafNodes(ctx, nodes)
	if err != nil {
		return nil, err
	}
	heads := make([]cid.ID, len(leaves))
	for i, l := range leaves {
		heads[i] = l.CID
	}
	return heads, nil
}

// getLatestParents returns CalculateLatest's result as a single-element
// parent list, or an empty list if genesis has no nodes yet.
func (r *Repository) getLatestParents(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	latest, err := r.graph.CalculateLatest(ctx, genesis)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	return []cid.ID{*latest}, nil
}

// lastNonDeletePayload returns the payload of the non-Delete operation with
// the largest (timestamp, author, id) sort key in genesis's log, for a
// Delete commit to replay as its node's payload (spec §4.7).
func (r *Repository) lastNonDeletePayload(ctx context.Context, genesis cid.ID) (any, error) {
	ops, err := r.projector.GetOperationsByGenesis(ctx, genesis)
	if err != nil {
		return nil, err
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Kind != crdt.KindDelete {
			return ops[i].Payload, nil
		}
	}
	return nil, errors.ErrInternal.WithMessage("delete requires a prior non-delete operation in the log")
}

// operationForNode finds the operation in ops that produced node. A commit
// writes its node and its log entry together, so every node corresponds to
// exactly one operation at the same timestamp (spec §3 invariant 5);
// concurrent commits can share a timestamp (spec §8 scenario b), so ties are
// broken by matching payload, with Delete handled separately since its node
// replays the prior payload rather than carrying its own.
func operationForNode(ops []*crdt.Operation, node *graph.Node) (*crdt.Operation, error) {
	var candidates []*crdt.Operation
	for _, op := range ops {
		if op.Timestamp == node.Timestamp {
			candidates = append(candidates, op)
		}
	}
	for _, op := range candidates {
		if op.Kind != crdt.KindDelete && reflect.DeepEqual(op.Payload, node.Payload) {
			return op, nil
		}
	}
	for _, op := range candidates {
		if op.Kind == crdt.KindDelete {
			return op, nil
		}
	}
	return nil, errors.ErrInternal.WithDetail("node", node.Timestamp)
}

// checkAndMerge resolves divergence for genesis, if any, synthesizing a
// single merge node over all current heads (spec §4.7). A single call
// always reduces the head count to one: the new merge node cites every
// prior head as a parent, so it is genesis's unique new leaf.
func (r *Repository) checkAndMerge(ctx context.Context, genesis cid.ID) (cid.ID, error) {
	heads, err := r.findHeads(ctx, genesis)
	if err != nil {
		return cid.ID{}, err
	}
	r.metrics.SetHeads(genesis.String(), len(heads))
	if len(heads) <= 1 {
		return cid.ID{}, nil
	}

	ops, err := r.projector.GetOperationsByGenesis(ctx, genesis)
	if err != nil {
		return cid.ID{}, err
	}

	headStates := make([]*crdt.State, len(heads))
	var maxTimestamp uint64
	for i, h := range heads {
		node, err := r.graph.GetNode(ctx, h)
		if err != nil {
			return cid.ID{}, err
		}
		if node == nil {
			return cid.ID{}, errors.ErrInternal.WithDetail("head", h.String())
		}
		entry, err := operationForNode(ops, node)
		if err != nil {
			return cid.ID{}, err
		}
		headStates[i] = &crdt.State{
			Genesis: genesis,
			Value:   entry.Payload,
			Present: entry.Kind != crdt.KindDelete,
			Winner:  entry,
		}
		if node.Timestamp > maxTimestamp {
			maxTimestamp = node.Timestamp
		}
	}

	mergeTimestamp := maxTimestamp + 1
	nodeID, _, err := r.resolver.CreateMergeNode(ctx, genesis, heads, headStates, mergeTimestamp)
	if err != nil {
		return cid.ID{}, err
	}
	r.metrics.RecordNodeStored()
	r.metrics.RecordMerge(r.policyTypeOf(ctx, genesis))
	r.metrics.SetHeads(genesis.String(), 1)

	r.logger.Info(ctx, "auto-merged divergent heads",
		logging.String("genesis", genesis.String()),
		logging.String("merge_node", nodeID.String()),
		logging.Int("head_count", len(heads)),
	)

	return nodeID, nil
}

func (r *Repository) policyTypeOf(ctx context.Context, genesis cid.ID) string {
	node, err := r.graph.GetNode(ctx, genesis)
	if err != nil || node == nil {
		return DefaultPolicyType
	}
	m, ok := node.Metadata.(map[string]any)
	if !ok {
		return DefaultPolicyType
	}
	s, _ := m[convergence.PolicyTypeKey].(string)
	if s == "" {
		return DefaultPolicyType
	}
	return s
}

// Latest returns genesis's current latest node, or nil if genesis is
// unknown or empty.
func (r *Repository) Latest(ctx context.Context, genesis cid.ID) (*cid.ID, error) {
	return r.graph.CalculateLatest(ctx, genesis)
}

// GetState returns genesis's current LWW-projected state.
func (r *Repository) GetState(ctx context.Context, genesis cid.ID) (*crdt.State, error) {
	return r.projector.GetState(ctx, genesis)
}

// GetNode delegates to the underlying graph.
func (r *Repository) GetNode(ctx context.Context, id cid.ID) (*graph.Node, error) {
	return r.graph.GetNode(ctx, id)
}

// GetHistory returns genesis's nodes in topological order: genesis first,
// then children ordered by ascending timestamp, ties broken by ascending
// CID (spec §9 Open Question 1).
func (r *Repository) GetHistory(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	ids, err := r.graph.GetNodesByGenesis(ctx, genesis)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.ErrNotFound.WithDetail("genesis", genesis.String())
	}

	nodes := make(map[cid.ID]*graph.Node, len(ids))
	for _, id := range ids {
		n, err := r.graph.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, errors.ErrInternal.WithDetail("missing_node", id.String())
		}
		nodes[id] = n
	}

	remaining := make(map[cid.ID]bool, len(ids))
	for id := range nodes {
		remaining[id] = true
	}

	history := make([]cid.ID, 0, len(ids))
	for len(remaining) > 0 {
		var next cid.ID
		found := false
		for id := range remaining {
			n := nodes[id]
			ready := true
			for _, p := range n.Parents {
				if remaining[p] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			if !found || n.Timestamp < nodes[next].Timestamp ||
				(n.Timestamp == nodes[next].Timestamp && id.Less(next)) {
				next = id
				found = true
			}
		}
		if !found {
			return nil, errors.ErrInternal.WithMessage("get_history: no ready node found, graph is not acyclic")
		}
		history = append(history, next)
		delete(remaining, next)
	}
	return history, nil
}
