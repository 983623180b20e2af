// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package repo

import "github.com/monas-project/crsl/convergence"

// DefaultPolicyType is the merge policy a genesis uses when its creator
// does not request one explicitly.
const DefaultPolicyType = "lww"

// contentMetadata builds the node metadata Repository attaches to every
// node it writes: an opaque map carrying only the policy_type key the
// convergence resolver looks for (spec §3, §9).
func contentMetadata(policyType string) any {
	if policyType == "" {
		policyType = DefaultPolicyType
	}
	return map[string]any{convergence.PolicyTypeKey: policyType}
}
