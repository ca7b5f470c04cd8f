package snapshot

import "time"

// LayerStat is the outcome of one layer task.
type LayerStat struct {
	Name    string
	Drawn   bool
	Err     error
	Elapsed time.Duration
}

// Stats summarises a rendered snapshot in compositing order.
type Stats struct {
	Layers  []LayerStat
	Elapsed time.Duration
}

// Drawn returns how many layers contributed pixels.
func (s *Stats) Drawn() int {
	n := 0
	for _, l := range s.Layers {
		if l.Drawn {
			n++
		}
	}
	return n
}
