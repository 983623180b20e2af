// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package codec provides the canonical, deterministic encoding every hashed
// object in CRSL is run through: field order is fixed, there is no trailing
// whitespace, and integers are encoded in their shortest form, so that
// decode(encode(x)) == x and cid.Of(encode(x)) is stable across processes.
package codec

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
	once    sync.Once
)

func modes() (cbor.EncMode, cbor.DecMode) {
	once.Do(func() {
		opts := cbor.CanonicalEncOptions()
		m, err := opts.EncMode()
		if err != nil {
			panic("codec: build canonical encode mode: " + err.Error())
		}
		encMode = m

		dopts := cbor.DecOptions{}
		dm, err := dopts.DecMode()
		if err != nil {
			panic("codec: build decode mode: " + err.Error())
		}
		decMode = dm
	})
	return encMode, decMode
}

// Encode produces the canonical byte encoding of v. The same logical value
// always produces the same bytes, regardless of map iteration order, field
// order in the source, or the process/machine doing the encoding.
func Encode(v any) ([]byte, error) {
	m, _ := modes()
	return m.Marshal(v)
}

// Decode reverses Encode into v, which must be a pointer.
func Decode(data []byte, v any) error {
	_, m := modes()
	return m.Unmarshal(data, v)
}
