package store

import "github.com/rxtech-lab/argo-pulse/internal/types"

// EventType identifies what changed in the store.
type EventType string

const (
	EventSnapshot  EventType = "snapshot"
	EventMode      EventType = "mode"
	EventLoading   EventType = "loading"
	EventSelection EventType = "selection"
)

// Event is a change notification. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType             `json:"type"`
	Asset    types.AssetID         `json:"asset,omitempty"`
	Snapshot *types.MarketSnapshot `json:"snapshot,omitempty"`
	Mode     types.IngestionMode   `json:"mode,omitempty"`
	Loading  bool                  `json:"loading"`
	Selected types.AssetID         `json:"selected,omitempty"`
}
