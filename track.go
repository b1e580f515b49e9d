package mot

// TrackState is a track's position in the New → Tracked → Lost → Removed
// lifecycle.
type TrackState int

const (
	StateNew TrackState = iota
	StateTracked
	StateLost
	StateRemoved
)

func (s TrackState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateTracked:
		return "tracked"
	case StateLost:
		return "lost"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// maxHistory bounds a track's retained box history; the oldest entry is
// evicted once the cap is reached.
const maxHistory = 50

// TrackView is the read-only introspection surface a tracker exposes for its
// current track population, regardless of concrete track variant.
type TrackView interface {
	ID() int
	State() TrackState
	Age() uint
	TimeSinceUpdate() uint
	Box() Rect
	Velocity() (dx, dy float64)
	History() []Rect
}

// Track holds the state shared by every track variant: identity, age
// bookkeeping and bounded box history. It carries no motion model of its
// own — SortTrack and BotSortTrack each embed Track alongside their own
// Estimator, so the motion model stays a concrete, non-downcast field on the
// concrete track type rather than something Track dispatches on.
type Track struct {
	id              int
	age             uint
	timeSinceUpdate uint
	state           TrackState
	history         []Rect
}

func newTrack(id int) Track {
	return Track{id: id, state: StateNew}
}

func (t *Track) ID() int                  { return t.id }
func (t *Track) State() TrackState        { return t.state }
func (t *Track) Age() uint                { return t.age }
func (t *Track) TimeSinceUpdate() uint    { return t.timeSinceUpdate }
func (t *Track) IsActive() bool           { return t.state == StateTracked }
func (t *Track) IsLost() bool             { return t.state == StateLost }
func (t *Track) IsRemoved() bool          { return t.state == StateRemoved }
func (t *Track) MarkLost()                { t.state = StateLost }
func (t *Track) MarkRemoved()             { t.state = StateRemoved }

// History returns a defensive copy of the retained box history, oldest
// first.
func (t *Track) History() []Rect {
	out := make([]Rect, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Track) pushHistory(box Rect) {
	if len(t.history) >= maxHistory {
		t.history = t.history[1:]
	}
	t.history = append(t.history, box)
}

// advance is the bookkeeping every track variant performs on predict,
// regardless of which Estimator produced box.
func (t *Track) advance(box Rect) {
	t.age++
	t.timeSinceUpdate++
	t.pushHistory(box)
}

// confirm is the bookkeeping every track variant performs on a successful
// match: time_since_update resets, history restarts, and the track is
// promoted to Tracked, whatever state it held before (New or Lost alike).
func (t *Track) confirm() {
	t.timeSinceUpdate = 0
	t.history = t.history[:0]
	t.state = StateTracked
}

// SortTrack is the track variant driven by the Sort tracker: box geometry
// only, no appearance features.
type SortTrack struct {
	Track
	motion Estimator
}

// NewSortTrack spawns a track at rect with the given id, owning its own
// motion estimator.
func NewSortTrack(id int, rect Rect, kalmanCfg KalmanConfig) *SortTrack {
	return &SortTrack{Track: newTrack(id), motion: NewEstimator(rect, kalmanCfg)}
}

// Predict advances the track's motion model one step and returns the
// predicted box. A track that is not currently Tracked (New or Lost) has its
// estimator Reset first, which zeroes the size velocity (XYWH) or area
// velocity (XYSR) so that size drift does not carry across a gap in updates;
// the center velocity is kept.
func (t *SortTrack) Predict() Rect {
	if !t.IsActive() {
		t.motion.Reset()
	}
	box := t.motion.Predict()
	t.advance(box)
	return box
}

// Update absorbs a matched detection's box and confirms the track.
func (t *SortTrack) Update(det *Detection) {
	t.motion.Update(det.BBox)
	t.confirm()
}

func (t *SortTrack) Box() Rect                     { return t.motion.Box() }
func (t *SortTrack) Velocity() (dx, dy float64)    { return t.motion.Velocity() }

// BotSortTrack is the track variant driven by the BotSort tracker: box
// geometry plus a fused appearance feature vector.
type BotSortTrack struct {
	Track
	motion   Estimator
	Features []float64
	Alpha    float64
}

// defaultFeatureAlpha is the EMA weight given to a track's prior appearance
// feature when fusing in a newly matched detection's features.
const defaultFeatureAlpha = 0.9

// NewBotSortTrack spawns a track at rect with the given id and initial
// appearance features (copied, not aliased).
func NewBotSortTrack(id int, rect Rect, features []float64, kalmanCfg KalmanConfig) *BotSortTrack {
	t := &BotSortTrack{
		Track:  newTrack(id),
		motion: NewEstimator(rect, kalmanCfg),
		Alpha:  defaultFeatureAlpha,
	}
	if len(features) > 0 {
		t.Features = append([]float64(nil), features...)
	}
	return t
}

func (t *BotSortTrack) Predict() Rect {
	if !t.IsActive() {
		t.motion.Reset()
	}
	box := t.motion.Predict()
	t.advance(box)
	return box
}

// Update absorbs a matched detection's box and, when the detection carries
// features, fuses them into the track's running appearance feature via EMA.
// A track with no prior features (first match after birth) simply adopts
// the detection's features outright.
func (t *BotSortTrack) Update(det *Detection) {
	if len(det.Features) > 0 {
		if len(t.Features) == 0 {
			t.Features = append([]float64(nil), det.Features...)
		} else {
			t.Features = ComposeNormalize(t.Features, det.Features, t.Alpha)
		}
	}
	t.motion.Update(det.BBox)
	t.confirm()
}

func (t *BotSortTrack) Box() Rect                  { return t.motion.Box() }
func (t *BotSortTrack) Velocity() (dx, dy float64) { return t.motion.Velocity() }
