package mot

import "fmt"

// idCounter hands out monotonically increasing track ids, starting at 1
// (0 is reserved for "unmatched" on a Detection). Scoped per-tracker rather
// than process-wide, so independent trackers in the same process — or
// back-to-back test fixtures — never need to coordinate a shared reset.
type idCounter struct {
	next int
}

func (c *idCounter) NextID() int {
	c.next++
	return c.next
}

// Reset rewinds the counter to its initial state. Callers are responsible
// for calling Reset between unrelated sequences that must not share ids.
func (c *idCounter) Reset() {
	c.next = 0
}

// ResetIDs rewinds the tracker's id counter, so the next spawned track gets
// id 1 again.
func (s *SortTracker) ResetIDs() { s.ids.Reset() }

// ResetIDs rewinds the tracker's id counter, so the next spawned track gets
// id 1 again.
func (s *BotSortTracker) ResetIDs() { s.ids.Reset() }

// Tracker is the per-frame update surface both tracker variants implement.
type Tracker interface {
	Update(detections []*Detection)
	Tracks() []TrackView
}

// BuildTracker dispatches on name to construct the configured tracker
// variant. Unknown names are a fatal configuration error, surfaced to the
// caller rather than panicked — config validation happens before any track
// state exists, so there's nothing to protect an invariant on yet.
func BuildTracker(name string, sortCfg SortConfig, botSortCfg BotSortConfig) (Tracker, error) {
	switch name {
	case "sort":
		return NewSortTracker(sortCfg)
	case "botsort":
		return NewBotSortTracker(botSortCfg)
	default:
		return nil, fmt.Errorf("mot: unknown tracker name %q: must be %q or %q", name, "sort", "botsort")
	}
}

// TrackerType names the tracker variants BuildTracker dispatches on, with a
// typed round-trip between the string name and the variant so introspection
// code (logging, error messages) never has to re-derive the name from a
// live Tracker value.
type TrackerType int

const (
	TrackerSort TrackerType = iota
	TrackerBotSort
)

// TrackerName returns the dispatch string for t, or "" if t is not a known
// variant.
func TrackerName(t TrackerType) string {
	switch t {
	case TrackerSort:
		return "sort"
	case TrackerBotSort:
		return "botsort"
	default:
		return ""
	}
}

// TrackerTypeOf parses name into its TrackerType, mirroring BuildTracker's
// dispatch. ok is false for an unrecognized name.
func TrackerTypeOf(name string) (t TrackerType, ok bool) {
	switch name {
	case "sort":
		return TrackerSort, true
	case "botsort":
		return TrackerBotSort, true
	default:
		return 0, false
	}
}
