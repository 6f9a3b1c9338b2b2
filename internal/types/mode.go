package types

// IngestionMode is the process-wide ingestion state.
type IngestionMode string

const (
	// IngestionModeLoading is the initial mode while the bootstrap runs.
	IngestionModeLoading IngestionMode = "LOADING"
	// IngestionModeLive means snapshots come from the bulk source and the push feed.
	IngestionModeLive IngestionMode = "LIVE"
	// IngestionModeFallback means snapshots are synthetic or the feed is gone.
	IngestionModeFallback IngestionMode = "FALLBACK"
)

// CanTransition reports whether moving from m to next is allowed.
// LOADING leaves exactly once; LIVE may degrade to FALLBACK; nothing returns to LOADING
// and FALLBACK never goes back to LIVE.
func (m IngestionMode) CanTransition(next IngestionMode) bool {
	switch m {
	case IngestionModeLoading:
		return next == IngestionModeLive || next == IngestionModeFallback
	case IngestionModeLive:
		return next == IngestionModeFallback
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (m IngestionMode) String() string {
	return string(m)
}
