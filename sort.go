package mot

import (
	"fmt"

	"github.com/tensorworksio/mot-go/internal/assign"
)

// precision is the integerization scale applied to every [0,1] similarity
// score before it reaches the integer assignment layer.
const precision = 1_000_000

// SortConfig configures a Sort tracker. Zero values are replaced with the
// documented defaults inside NewSortTracker.
type SortConfig struct {
	Kalman      KalmanConfig
	MaxTimeLost uint
	MatchThresh float64
}

func applySortDefaults(cfg *SortConfig) {
	applyKalmanDefaults(&cfg.Kalman)
	if cfg.MaxTimeLost == 0 {
		cfg.MaxTimeLost = 15
	}
	if cfg.MatchThresh == 0 {
		cfg.MatchThresh = 0.3
	}
}

func validateUnitRange(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("mot: %s must be in [0,1], got %v", name, v)
	}
	return nil
}

// SortTracker implements single-stage IoU tracking: predict every track,
// assign by maximum-weight IoU matching, spawn a track for every unmatched
// detection, demote or remove every unmatched track.
type SortTracker struct {
	config SortConfig
	tracks []*SortTrack
	ids    idCounter
}

// NewSortTracker builds a tracker from cfg, applying documented defaults to
// any zero-valued field. Returns an error if a threshold falls outside
// [0,1].
func NewSortTracker(cfg SortConfig) (*SortTracker, error) {
	applySortDefaults(&cfg)
	if err := validateUnitRange("match_thresh", cfg.MatchThresh); err != nil {
		return nil, err
	}
	return &SortTracker{config: cfg}, nil
}

// Update runs one full frame: predict, associate, update matched, birth
// unmatched detections, demote or remove unmatched tracks, reap.
func (s *SortTracker) Update(detections []*Detection) {
	for _, t := range s.tracks {
		t.Predict()
	}

	cost := make([][]int, len(detections))
	for i, det := range detections {
		row := make([]int, len(s.tracks))
		for j, t := range s.tracks {
			row[j] = int(precision * IoU(det.BBox, t.Box()))
		}
		cost[i] = row
	}

	threshold := int(precision * s.config.MatchThresh)
	matches, unmatchedDets, unmatchedTracks := assign.Solve(cost, len(s.tracks), threshold)

	for _, m := range matches {
		track := s.tracks[m.Col]
		det := detections[m.Row]
		track.Update(det)
		det.ID = track.ID()
	}

	for _, i := range unmatchedDets {
		det := detections[i]
		track := NewSortTrack(s.ids.NextID(), det.BBox, s.config.Kalman)
		s.tracks = append(s.tracks, track)
	}

	for _, j := range unmatchedTracks {
		track := s.tracks[j]
		if track.TimeSinceUpdate() > s.config.MaxTimeLost {
			track.MarkRemoved()
		} else {
			track.MarkLost()
		}
	}

	s.reap()
}

func (s *SortTracker) reap() {
	kept := s.tracks[:0]
	for _, t := range s.tracks {
		if !t.IsRemoved() {
			kept = append(kept, t)
		}
	}
	s.tracks = kept
}

// Tracks returns a read-only view of the current track population.
func (s *SortTracker) Tracks() []TrackView {
	views := make([]TrackView, len(s.tracks))
	for i, t := range s.tracks {
		views[i] = t
	}
	return views
}
