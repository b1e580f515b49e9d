/*
Package mot provides a real-time multi-object tracking core built around
SORT and BotSort association.

Detections come in per frame; the tracker predicts every live track's motion,
associates detections against tracks by IoU (and, for BotSort, fused
appearance), updates matches, spawns new tracks for unmatched detections, and
demotes or removes tracks that go too long without a match.

# Basic Usage

	tracker, err := mot.NewSortTracker(mot.SortConfig{})
	if err != nil {
		log.Fatal(err)
	}

	for _, frame := range frames {
		detections := detect(frame)
		tracker.Update(detections)

		for _, det := range detections {
			fmt.Printf("id=%d bbox=%v\n", det.ID, det.BBox)
		}
	}

# Core Types

Detection is one frame's observation: a bounding box, a confidence score,
and an optional appearance feature vector.

Track (SortTrack, BotSortTrack) owns its own motion estimator and moves
through New → Tracked → Lost → Removed as it matches or fails to match.

Tracker (SortTracker, BotSortTracker) owns a population of tracks and
exposes Update(detections) as its only per-frame entry point.

# Motion Models

  - KalmanXYWH: center, width, height, each with a velocity term.
  - KalmanXYSR: center, area, aspect ratio; aspect ratio has no velocity
    term. Implemented as a complete, independently usable alternative to
    KalmanXYWH, though neither SortTracker nor BotSortTracker selects it
    by default.

# Association

Both trackers integerize similarity scores and solve for a maximum-weight
matching via a Hungarian solver (internal/assign). SortTracker runs one
IoU-only pass; BotSortTracker runs three cascaded passes split by detection
confidence and track state, fusing IoU with appearance similarity where the
boxes are close enough to trust it.
*/
package mot
