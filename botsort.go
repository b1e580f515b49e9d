package mot

import (
	"fmt"
	"math"

	"github.com/tensorworksio/mot-go/internal/assign"
)

// BotSortConfig configures a BotSort tracker. Zero values are replaced with
// the documented defaults inside NewBotSortTracker.
type BotSortConfig struct {
	Kalman KalmanConfig

	MaxTimeLost uint

	TrackHighThresh float64
	TrackLowThresh  float64
	NewTrackThresh  float64

	FirstMatchThresh       float64
	SecondMatchThresh      float64
	UnconfirmedMatchThresh float64

	ProximityThresh  float64
	AppearanceThresh float64
}

func applyBotSortDefaults(cfg *BotSortConfig) {
	applyKalmanDefaults(&cfg.Kalman)
	if cfg.MaxTimeLost == 0 {
		cfg.MaxTimeLost = 15
	}
	if cfg.TrackHighThresh == 0 {
		cfg.TrackHighThresh = 0.5
	}
	if cfg.TrackLowThresh == 0 {
		cfg.TrackLowThresh = 0.1
	}
	if cfg.NewTrackThresh == 0 {
		cfg.NewTrackThresh = 0.6
	}
	if cfg.FirstMatchThresh == 0 {
		cfg.FirstMatchThresh = 0.3
	}
	if cfg.SecondMatchThresh == 0 {
		cfg.SecondMatchThresh = 0.1
	}
	if cfg.UnconfirmedMatchThresh == 0 {
		cfg.UnconfirmedMatchThresh = 0.2
	}
	if cfg.ProximityThresh == 0 {
		cfg.ProximityThresh = 0.5
	}
	if cfg.AppearanceThresh == 0 {
		cfg.AppearanceThresh = 0.9
	}
}

// BotSortTracker implements a three-stage cascaded association with
// appearance fusion and a confidence-tiered detection split: high-confidence
// detections get first claim on active and lost tracks, low-confidence
// detections mop up IoU-only against the stage-1 leftovers, and a final
// stage either confirms or kills not-yet-confirmed tracks.
type BotSortTracker struct {
	config BotSortConfig
	tracks []*BotSortTrack
	ids    idCounter
}

// NewBotSortTracker builds a tracker from cfg, applying documented defaults
// to any zero-valued field. Returns an error if a threshold falls outside
// [0,1].
func NewBotSortTracker(cfg BotSortConfig) (*BotSortTracker, error) {
	applyBotSortDefaults(&cfg)
	thresholds := map[string]float64{
		"track_high_thresh":         cfg.TrackHighThresh,
		"track_low_thresh":          cfg.TrackLowThresh,
		"new_track_thresh":          cfg.NewTrackThresh,
		"first_match_thresh":        cfg.FirstMatchThresh,
		"second_match_thresh":       cfg.SecondMatchThresh,
		"unconfirmed_match_thresh":  cfg.UnconfirmedMatchThresh,
		"proximity_thresh":          cfg.ProximityThresh,
		"appearance_thresh":         cfg.AppearanceThresh,
	}
	for name, v := range thresholds {
		if err := validateUnitRange(name, v); err != nil {
			return nil, err
		}
	}
	if cfg.TrackLowThresh > cfg.TrackHighThresh {
		return nil, fmt.Errorf("mot: track_low_thresh (%v) must not exceed track_high_thresh (%v)", cfg.TrackLowThresh, cfg.TrackHighThresh)
	}
	return &BotSortTracker{config: cfg}, nil
}

// buildCost fills a numRows x numCols integer cost matrix from a similarity
// function, integerizing each entry to the shared assignment-layer scale.
func buildCost(numRows, numCols int, similarity func(i, j int) float64) [][]int {
	cost := make([][]int, numRows)
	for i := 0; i < numRows; i++ {
		row := make([]int, numCols)
		for j := 0; j < numCols; j++ {
			row[j] = int(precision * similarity(i, j))
		}
		cost[i] = row
	}
	return cost
}

// fusedSimilarity is the stage 1 / stage 3 cost term: max(iou, appearance
// similarity), where appearance similarity is only considered when both
// feature vectors are present, the boxes are proximate enough to trust
// appearance, and the resulting cosine similarity itself clears
// appearanceThresh.
func fusedSimilarity(det *Detection, track *BotSortTrack, proximityThresh, appearanceThresh float64) float64 {
	iou := IoU(det.BBox, track.Box())

	similarity := 0.0
	if len(det.Features) > 0 && len(track.Features) > 0 {
		if Proximity(det.BBox, track.Box()) > proximityThresh {
			similarity = CosineSimilarity(det.Features, track.Features)
		}
	}
	if similarity <= appearanceThresh {
		similarity = 0
	}

	return math.Max(iou, similarity)
}

// Update runs one full frame through the three-stage cascade.
func (s *BotSortTracker) Update(detections []*Detection) {
	for _, t := range s.tracks {
		t.Predict()
	}

	// Detections below track_low_thresh are never matched in stages 1/2;
	// they fall straight into the stage-3 carry-over below since they're
	// never added to matchedDet.
	var highDets, lowDets []int
	for i, det := range detections {
		switch {
		case det.Confidence >= s.config.TrackHighThresh:
			highDets = append(highDets, i)
		case det.Confidence >= s.config.TrackLowThresh:
			lowDets = append(lowDets, i)
		}
	}

	var activeLostTracks, unconfirmedTracks []int
	wasTracked := make(map[int]bool, len(s.tracks))
	for j, t := range s.tracks {
		if t.State() == StateNew {
			unconfirmedTracks = append(unconfirmedTracks, j)
		} else if t.State() == StateTracked || t.State() == StateLost {
			activeLostTracks = append(activeLostTracks, j)
			wasTracked[j] = t.State() == StateTracked
		}
	}

	matchedDet := make(map[int]bool, len(detections))

	// Stage 1: high-score detections vs active+lost tracks, fused cost.
	stage1Cost := buildCost(len(highDets), len(activeLostTracks), func(i, j int) float64 {
		return fusedSimilarity(detections[highDets[i]], s.tracks[activeLostTracks[j]], s.config.ProximityThresh, s.config.AppearanceThresh)
	})
	stage1Thresh := int(precision * s.config.FirstMatchThresh)
	stage1Matches, _, stage1UnmatchedTrackIdx := assign.Solve(stage1Cost, len(activeLostTracks), stage1Thresh)
	for _, m := range stage1Matches {
		det := detections[highDets[m.Row]]
		track := s.tracks[activeLostTracks[m.Col]]
		track.Update(det)
		det.ID = track.ID()
		matchedDet[highDets[m.Row]] = true
	}
	// Only tracks that were Tracked (not already Lost) at the start of the
	// frame get a second chance in stage 2.
	var stage1UnmatchedTracks []int
	for _, j := range stage1UnmatchedTrackIdx {
		trackIdx := activeLostTracks[j]
		if wasTracked[trackIdx] {
			stage1UnmatchedTracks = append(stage1UnmatchedTracks, trackIdx)
		}
	}

	// Stage 2: low-score detections vs stage-1-unmatched tracks, IoU only.
	stage2Cost := buildCost(len(lowDets), len(stage1UnmatchedTracks), func(i, j int) float64 {
		return IoU(detections[lowDets[i]].BBox, s.tracks[stage1UnmatchedTracks[j]].Box())
	})
	stage2Thresh := int(precision * s.config.SecondMatchThresh)
	stage2Matches, _, stage2UnmatchedTrackIdx := assign.Solve(stage2Cost, len(stage1UnmatchedTracks), stage2Thresh)
	for _, m := range stage2Matches {
		det := detections[lowDets[m.Row]]
		track := s.tracks[stage1UnmatchedTracks[m.Col]]
		track.Update(det)
		det.ID = track.ID()
		matchedDet[lowDets[m.Row]] = true
	}
	for _, j := range stage2UnmatchedTrackIdx {
		s.tracks[stage1UnmatchedTracks[j]].MarkLost()
	}

	// Every detection not yet matched carries into stage 3, whichever
	// confidence tier it started in.
	var carried []int
	for i := range detections {
		if !matchedDet[i] {
			carried = append(carried, i)
		}
	}

	// Stage 3: carried-unconfirmed detections vs unconfirmed tracks, fused
	// cost with the real appearance thresholds.
	stage3Cost := buildCost(len(carried), len(unconfirmedTracks), func(i, j int) float64 {
		return fusedSimilarity(detections[carried[i]], s.tracks[unconfirmedTracks[j]], s.config.ProximityThresh, s.config.AppearanceThresh)
	})
	stage3Thresh := int(precision * s.config.UnconfirmedMatchThresh)
	stage3Matches, stage3UnmatchedDetIdx, stage3UnmatchedTrackIdx := assign.Solve(stage3Cost, len(unconfirmedTracks), stage3Thresh)
	for _, m := range stage3Matches {
		det := detections[carried[m.Row]]
		track := s.tracks[unconfirmedTracks[m.Col]]
		track.Update(det)
		det.ID = track.ID()
	}
	for _, j := range stage3UnmatchedTrackIdx {
		s.tracks[unconfirmedTracks[j]].MarkRemoved()
	}

	// Birth: stage-3-unmatched detections above new_track_thresh spawn
	// fresh tracks carrying their features.
	for _, i := range stage3UnmatchedDetIdx {
		det := detections[carried[i]]
		if det.Confidence > s.config.NewTrackThresh {
			track := NewBotSortTrack(s.ids.NextID(), det.BBox, det.Features, s.config.Kalman)
			s.tracks = append(s.tracks, track)
		}
	}

	// Expire: any still-Lost track that has drifted past max_time_lost is
	// removed.
	for _, t := range s.tracks {
		if t.State() == StateLost && t.TimeSinceUpdate() > s.config.MaxTimeLost {
			t.MarkRemoved()
		}
	}

	s.reap()
}

func (s *BotSortTracker) reap() {
	kept := s.tracks[:0]
	for _, t := range s.tracks {
		if !t.IsRemoved() {
			kept = append(kept, t)
		}
	}
	s.tracks = kept
}

// Tracks returns a read-only view of the current track population.
func (s *BotSortTracker) Tracks() []TrackView {
	views := make([]TrackView, len(s.tracks))
	for i, t := range s.tracks {
		views[i] = t
	}
	return views
}
