package election

import "time"

// Clock abstracts the time source so closure-timing logic is testable
// without wall-clock dependence.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
