// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package convergence

import (
	"sync"

	"github.com/monas-project/crsl/pkg/errors"
)

// Registry dispatches a genesis's policy_type metadata string to a
// registered MergePolicy, mirroring the mode-keyed adapter selector pattern
// used elsewhere in this codebase for pluggable strategies.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]MergePolicy
}

// NewRegistry returns a Registry pre-populated with LwwMergePolicy under
// its name, the default when a genesis names no policy_type.
func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]MergePolicy)}
	r.Register(LwwMergePolicy{})
	return r
}

// Register adds or replaces the policy under its own Name().
func (r *Registry) Register(policy MergePolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[policy.Name()] = policy
}

// Resolve returns the policy registered under policyType. An empty
// policyType resolves to LwwMergePolicy. Unknown names return ErrUnknownPolicy.
func (r *Registry) Resolve(policyType string) (MergePolicy, error) {
	if policyType == "" {
		policyType = LwwPolicyName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	policy, ok := r.policies[policyType]
	if !ok {
		return nil, errors.ErrUnknownPolicy.WithDetail("policy_type", policyType)
	}
	return policy, nil
}
