// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

const (
	// MetricCommitsTotal counts CommitOperation calls, labeled by kind
	// (create/update/delete) and outcome (ok/error).
	MetricCommitsTotal = "crsl_commits_total"

	// MetricCommitDuration observes CommitOperation wall time in seconds.
	MetricCommitDuration = "crsl_commit_duration_seconds"

	// MetricMergesTotal counts auto-merge nodes synthesized, labeled by
	// policy_type.
	MetricMergesTotal = "crsl_merges_total"

	// MetricHeadsGauge reports the number of concurrent heads observed for
	// a genesis at the end of a commit.
	MetricHeadsGauge = "crsl_heads"

	// MetricNodesStoredTotal counts DAG nodes successfully written.
	MetricNodesStoredTotal = "crsl_nodes_stored_total"

	// MetricCacheHitsTotal / MetricCacheMissesTotal count NodeStore cache
	// lookups.
	MetricCacheHitsTotal   = "crsl_cache_hits_total"
	MetricCacheMissesTotal = "crsl_cache_misses_total"
)

// RepoMetrics provides the repository orchestrator's domain-specific
// metric emission, analogous to an agent-framework's per-subsystem metrics
// wrapper around a generic Collector.
type RepoMetrics struct {
	collector Collector
}

// NewRepoMetrics wraps collector in the repository's metric vocabulary.
func NewRepoMetrics(collector Collector) *RepoMetrics {
	return &RepoMetrics{collector: collector}
}

// CommitOutcome is ok or error, the label value recorded alongside kind.
type CommitOutcome string

const (
	OutcomeOK    CommitOutcome = "ok"
	OutcomeError CommitOutcome = "error"
)

// RecordCommit increments the commit counter and observes its duration.
func (m *RepoMetrics) RecordCommit(kind string, outcome CommitOutcome, durationSeconds float64) {
	labels := NewLabels("kind", kind, "outcome", string(outcome))
	m.collector.IncrementCounter(MetricCommitsTotal, labels)
	m.collector.ObserveHistogram(MetricCommitDuration, durationSeconds, labels)
}

// RecordMerge increments the merge counter for policyType.
func (m *RepoMetrics) RecordMerge(policyType string) {
	m.collector.IncrementCounter(MetricMergesTotal, NewLabels("policy_type", policyType))
}

// SetHeads reports the current head count for genesis.
func (m *RepoMetrics) SetHeads(genesis string, count int) {
	m.collector.SetGauge(MetricHeadsGauge, float64(count), NewLabels("genesis", genesis))
}

// RecordNodeStored increments the stored-node counter.
func (m *RepoMetrics) RecordNodeStored() {
	m.collector.IncrementCounter(MetricNodesStoredTotal, NoLabels())
}

// RecordCacheHit / RecordCacheMiss increment the cache lookup counters.
func (m *RepoMetrics) RecordCacheHit() {
	m.collector.IncrementCounter(MetricCacheHitsTotal, NoLabels())
}

func (m *RepoMetrics) RecordCacheMiss() {
	m.collector.IncrementCounter(MetricCacheMissesTotal, NoLabels())
}
