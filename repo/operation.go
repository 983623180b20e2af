// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package repo

import (
	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/pkg/cid"
)

// Operation is the commit request a caller submits to Repository. It carries
// the same fields as crdt.Operation plus PolicyType, a Repository-level
// extension honored only on Create: it names the merge policy recorded in
// the new genesis node's metadata (default "lww" when empty).
type Operation struct {
	Genesis    cid.ID
	Kind       crdt.Kind
	Payload    any
	Timestamp  uint64
	Author     string
	PolicyType string

	// ExternalID, when non-zero, is recorded as this commit's crdt.Operation
	// ID verbatim instead of letting the projector derive one from the
	// operation's canonical encoding — the "externally-minted UUID"
	// alternative spec §3 allows for an operation id. Mint one with
	// crdt.NewExternalID.
	ExternalID cid.ID
}

func (op *Operation) toOperationLogEntry() *crdt.Operation {
	return &crdt.Operation{
		ID:        op.ExternalID,
		Genesis:   op.Genesis,
		Kind:      op.Kind,
		Payload:   op.Payload,
		Timestamp: op.Timestamp,
		Author:    op.Author,
	}
}
