package load

// Level is a coarse classification of the average load.
type Level int

const (
	LevelOptimal Level = iota
	LevelGood
	LevelModerate
	LevelHigh
)

var levelNames = [...]string{"OPTIMAL", "GOOD", "MODERATE", "HIGH"}

var levelBars = [...]string{"●●●●●", "●●●●○", "●●●○○", "●●○○○"}

func (l Level) String() string {
	if l < LevelOptimal || l > LevelHigh {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Health is a classification plus its indicator bar.
type Health struct {
	Level Level
	Bar   string
}

// Classify maps an average load to a Health.
// Thresholds: <30 optimal, <60 good, <80 moderate, otherwise high.
func Classify(avg float64) Health {
	var l Level
	switch {
	case avg < 30:
		l = LevelOptimal
	case avg < 60:
		l = LevelGood
	case avg < 80:
		l = LevelModerate
	default:
		l = LevelHigh
	}
	return Health{Level: l, Bar: levelBars[l]}
}
