package mot

import "testing"

func mustSortTracker(t *testing.T, cfg SortConfig) *SortTracker {
	t.Helper()
	tracker, err := NewSortTracker(cfg)
	if err != nil {
		t.Fatalf("NewSortTracker: %v", err)
	}
	return tracker
}

// A detection that spawns a track is, by spec, still "unmatched" in its own
// birth frame: it keeps id 0 until a later frame actually matches it against
// the track it caused to exist.
func TestSortTracker_BirthOnFirstFrame(t *testing.T) {
	tracker := mustSortTracker(t, SortConfig{})

	det := &Detection{BBox: Rect{X: 0, Y: 0, W: 10, H: 10}}
	tracker.Update([]*Detection{det})

	if det.ID != 0 {
		t.Fatalf("birth-frame detection id = %d, want 0", det.ID)
	}
	if len(tracker.Tracks()) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracker.Tracks()))
	}
	if tracker.Tracks()[0].ID() == 0 {
		t.Fatal("expected spawned track to have a nonzero id")
	}
}

func TestSortTracker_ReMatchSameID(t *testing.T) {
	tracker := mustSortTracker(t, SortConfig{})

	det1 := &Detection{BBox: Rect{X: 0, Y: 0, W: 10, H: 10}}
	tracker.Update([]*Detection{det1})
	firstID := tracker.Tracks()[0].ID()

	det2 := &Detection{BBox: Rect{X: 1, Y: 1, W: 10, H: 10}}
	tracker.Update([]*Detection{det2})

	if det2.ID != firstID {
		t.Errorf("re-matched detection id = %d, want %d", det2.ID, firstID)
	}
	if len(tracker.Tracks()) != 1 {
		t.Fatalf("expected track count to stay 1, got %d", len(tracker.Tracks()))
	}
}

func TestSortTracker_LostThenRecovered(t *testing.T) {
	tracker := mustSortTracker(t, SortConfig{MaxTimeLost: 5})

	det := &Detection{BBox: Rect{X: 0, Y: 0, W: 10, H: 10}}
	tracker.Update([]*Detection{det})
	id := tracker.Tracks()[0].ID()

	// 3 frames with no detections: track should go Lost but survive.
	for i := 0; i < 3; i++ {
		tracker.Update(nil)
	}
	tracks := tracker.Tracks()
	if len(tracks) != 1 || tracks[0].State() != StateLost {
		t.Fatalf("expected 1 Lost track after gap, got %v", tracks)
	}

	// Detection reappears near the same spot: should re-acquire the id.
	reacquire := &Detection{BBox: Rect{X: 0, Y: 0, W: 10, H: 10}}
	tracker.Update([]*Detection{reacquire})

	if reacquire.ID != id {
		t.Errorf("reacquired id = %d, want %d", reacquire.ID, id)
	}
	if tracker.Tracks()[0].State() != StateTracked {
		t.Errorf("state after recovery = %v, want Tracked", tracker.Tracks()[0].State())
	}
}

func TestSortTracker_ExpiresAfterMaxTimeLost(t *testing.T) {
	tracker := mustSortTracker(t, SortConfig{MaxTimeLost: 2})

	det := &Detection{BBox: Rect{X: 0, Y: 0, W: 10, H: 10}}
	tracker.Update([]*Detection{det})

	for i := 0; i < 5; i++ {
		tracker.Update(nil)
	}

	if len(tracker.Tracks()) != 0 {
		t.Fatalf("expected track to be reaped after exceeding max_time_lost, got %d tracks", len(tracker.Tracks()))
	}
}

func TestSortTracker_EmptyInputNoPanic(t *testing.T) {
	tracker := mustSortTracker(t, SortConfig{})
	tracker.Update(nil)
	if len(tracker.Tracks()) != 0 {
		t.Fatalf("expected no tracks from empty input, got %d", len(tracker.Tracks()))
	}
}

func TestNewSortTracker_RejectsOutOfRangeThreshold(t *testing.T) {
	if _, err := NewSortTracker(SortConfig{MatchThresh: 1.5}); err == nil {
		t.Fatal("expected error for match_thresh > 1")
	}
}
