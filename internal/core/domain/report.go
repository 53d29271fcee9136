package domain

// SplitReport summarizes one split stage run.
type SplitReport struct {
	// Inputs is the number of items read.
	Inputs int
	// Resolved is the number of items served from the cache.
	Resolved int
	// Pending is the number of texts sent to the translator.
	Pending int
	// Deduplicated is the number of pending items whose text was already queued.
	Deduplicated int
}

// JoinReport summarizes one join stage run.
type JoinReport struct {
	// Records is the number of positional records consumed.
	Records int
	// Resolved is the number of cached values emitted.
	Resolved int
	// Translated is the number of translator outputs consumed and stored.
	Translated int
	// Reused is the number of pending records answered by an earlier output of the same run.
	Reused int
	// Missing is the number of pending records left without a translator output.
	Missing int
	// Surplus is the number of translator outputs left over after the last record.
	Surplus int
	// SentinelSeen reports whether the translator output ended with the control line.
	SentinelSeen bool
	// Warnings holds the integrity problems detected, if any.
	Warnings []error
}

// Expected returns how many translator outputs the join asked for.
func (r JoinReport) Expected() int {
	return r.Translated + r.Missing
}

// Received returns how many translator outputs the join saw.
func (r JoinReport) Received() int {
	return r.Translated + r.Surplus
}

// Report combines the reports of a full pipeline run.
type Report struct {
	RunID string
	Split SplitReport
	Join  JoinReport
}
