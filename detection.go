package mot

// Detection is a single frame's observation of an object, produced upstream
// by a detector or feature extractor. ID is zero on input and is populated
// by a tracker's Update once the detection is matched to a track; a detection
// that only spawns a new track keeps ID zero in that frame.
type Detection struct {
	FrameID    int
	ClassID    int
	ClassName  string
	BBox       Rect
	Confidence float64
	Features   []float64
	ID         int
}
