package pattern

// Phase is the half of a cycle a frame belongs to.
type Phase int

const (
	PhaseAscending Phase = iota
	PhaseDescending
)

func (p Phase) String() string {
	if p == PhaseDescending {
		return "descending"
	}
	return "ascending"
}

// Step is one frame position within a cycle.
type Step struct {
	Size  int
	Phase Phase
}

const (
	peakSize  = 8
	floorSize = 2
)

// FramesPerCycle is len(Sequence()).
const FramesPerCycle = peakSize + (peakSize - floorSize)

// Sequence returns the frame sizes of one cycle: 1..8 then 7..2.
func Sequence() []Step {
	steps := make([]Step, 0, FramesPerCycle)
	for i := 1; i <= peakSize; i++ {
		steps = append(steps, Step{Size: i, Phase: PhaseAscending})
	}
	for i := peakSize - 1; i >= floorSize; i-- {
		steps = append(steps, Step{Size: i, Phase: PhaseDescending})
	}
	return steps
}
