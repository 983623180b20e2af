// Copyright (C) 2025 monas-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package cid provides the content identifier used to name every node and
// operation in the engine.
//
// A CID is a deterministic hash of the canonical encoding of the object it
// names: two byte-equal encodings always produce the same CID, and changing
// any field changes it. CIDs are IPFS-style (CIDv1, sha2-256 multihash,
// base32 multibase string form) so operators can paste them between tools,
// but callers outside this package should treat them as opaque, comparable,
// hashable tokens.
package cid

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// rawCodec is the multicodec used for the CIDv1 wrapper. CRSL does not
// interpret the bytes it hashes as any particular IPLD format, so the
// generic "raw" codec (0x55) is the right fit.
const rawCodec = 0x55

// ID is an opaque, comparable content identifier.
type ID struct {
	inner gocid.Cid
}

// Of computes the CID of a canonical byte encoding.
func Of(data []byte) (ID, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return ID{}, fmt.Errorf("cid: hash payload: %w", err)
	}
	return ID{inner: gocid.NewCidV1(rawCodec, mh)}, nil
}

// MustOf is like Of but panics on error. Hashing a byte slice with a
// well-known hash function cannot realistically fail; this exists for
// call sites (tests, constants) where threading the error is pure noise.
func MustOf(data []byte) ID {
	id, err := Of(data)
	if err != nil {
		panic(err)
	}
	return id
}

// FromRaw wraps raw as a CID via the identity multihash: the bytes are
// embedded verbatim rather than hashed, so the CID round-trips an
// externally-minted identifier (a UUID, say) unchanged instead of naming
// content derived from it. This is the "or an externally-minted UUID"
// half of an operation id's definition, as opposed to Of's "CID of the
// canonical encoding" half.
func FromRaw(raw []byte) (ID, error) {
	mh, err := multihash.Sum(raw, multihash.IDENTITY, -1)
	if err != nil {
		return ID{}, fmt.Errorf("cid: wrap raw bytes: %w", err)
	}
	return ID{inner: gocid.NewCidV1(rawCodec, mh)}, nil
}

// Parse decodes a CID from its string form (base32 multibase by default,
// but any multibase prefix go-cid understands is accepted).
func Parse(s string) (ID, error) {
	c, err := gocid.Decode(s)
	if err != nil {
		return ID{}, fmt.Errorf("cid: parse %q: %w", s, err)
	}
	return ID{inner: c}, nil
}

// Cast reconstructs a CID from its raw binary form, as stored by Bytes.
func Cast(b []byte) (ID, error) {
	c, err := gocid.Cast(b)
	if err != nil {
		return ID{}, fmt.Errorf("cid: cast: %w", err)
	}
	return ID{inner: c}, nil
}

// IsZero reports whether this is the zero-value ID (no CID at all, distinct
// from any computed CID).
func (id ID) IsZero() bool {
	return !id.inner.Defined()
}

// String renders the CID in its canonical base32 multibase form.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.inner.String()
}

// Bytes returns the raw binary form, suitable for storage keys.
func (id ID) Bytes() []byte {
	return id.inner.Bytes()
}

// Equal reports whether two CIDs name the same content.
func (id ID) Equal(other ID) bool {
	return id.inner.Equals(other.inner)
}

// Less provides the deterministic lexicographic ordering the spec uses to
// break ties (on timestamp, on concurrent heads, in canonical ordering of
// merge parents).
func (id ID) Less(other ID) bool {
	return id.inner.KeyString() < other.inner.KeyString()
}

// MarshalText implements encoding.TextMarshaler so IDs serialize as their
// string form in JSON/YAML config and log output.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalCBOR implements cbor.Marshaler so an ID embedded anywhere in a
// canonically-encoded Node/Operation is represented as a CBOR byte string of
// its raw binary form, not reflected over field-by-field.
func (id ID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(id.Bytes())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (id *ID) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := Cast(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// SortByLex returns a new slice of ids sorted ascending by their
// lexicographic CID key, the tie-break order the spec requires for
// resolver inputs and leaf selection.
func SortByLex(ids []ID) []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	// Insertion sort: canonical-order slices in this engine are always
	// small (parent counts, head counts), so O(n^2) is the right trade for
	// simplicity over importing a generic sort for a handful of elements.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
