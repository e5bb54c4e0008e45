package estimate

import (
	"sort"

	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
)

// Stop is one distinct location an order visits. A stop whose location
// failed to parse still participates in the walk (it costs the per-stop
// alignment) but contributes no movement, and is surfaced through
// TravelBreakdown.UnparsedStops.
type Stop struct {
	Zone     string
	Raw      string
	Location LocationSpec
	Parsed   bool
}

// TravelBreakdown itemizes the travel estimate so callers can see exactly
// where the seconds went.
type TravelBreakdown struct {
	AlignSeconds          float64
	ZoneSwitchSeconds     float64
	CorridorChangeSeconds float64
	WalkingSeconds        float64
	StairsSeconds         float64
	UnparsedStops         int
}

// Total is the arithmetic sum of the breakdown components.
func (b TravelBreakdown) Total() float64 {
	return b.AlignSeconds + b.ZoneSwitchSeconds + b.CorridorChangeSeconds +
		b.WalkingSeconds + b.StairsSeconds
}

// BuildStops collects the distinct stop locations of an order's lines.
// Lines at the same zone/corridor/bay/level/position fold into one stop.
func BuildStops(lines []model.OrderLine, parser *Parser) []Stop {
	seen := make(map[string]bool, len(lines))
	stops := make([]Stop, 0, len(lines))

	for _, line := range lines {
		stop := Stop{Zone: normalizeZone(line.Zone), Raw: line.Location}
		if spec, err := parser.Parse(line.Location); err == nil {
			stop.Location = spec
			stop.Parsed = true
		}
		key := stopKey(stop)
		if seen[key] {
			continue
		}
		seen[key] = true
		stops = append(stops, stop)
	}
	return stops
}

// OrderStops arranges stops into the canonical walk order: all ground-floor
// stops before any upper-floor stop (one stairs trip per order), each group
// ascending by corridor, bay, level, then position. This is a fixed
// deterministic order, not a shortest-path solution.
func OrderStops(stops []Stop) []Stop {
	ordered := make([]Stop, len(stops))
	copy(ordered, stops)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Location.IsUpperFloor != b.Location.IsUpperFloor {
			return !a.Location.IsUpperFloor
		}
		if a.Location.CorridorNum != b.Location.CorridorNum {
			return a.Location.CorridorNum < b.Location.CorridorNum
		}
		if a.Location.BayNum != b.Location.BayNum {
			return a.Location.BayNum < b.Location.BayNum
		}
		if a.Location.Level != b.Location.Level {
			return a.Location.Level < b.Location.Level
		}
		if a.Location.PositionNum != b.Location.PositionNum {
			return a.Location.PositionNum < b.Location.PositionNum
		}
		return a.Raw < b.Raw
	})
	return ordered
}

// TravelSeconds charges the canonical walk over the ordered stops. Each
// stop costs an alignment; each consecutive parsed pair costs corridor,
// bay or position movement plus a zone-switch penalty when the zone
// changes. Upper-floor segments are scaled by the upper-walk multiplier,
// and the stairs are charged exactly once per order when any stop is on
// the upper floor.
func TravelSeconds(ordered []Stop, tp params.TravelParams) TravelBreakdown {
	var b TravelBreakdown

	var prev *Stop
	for i := range ordered {
		stop := &ordered[i]
		b.AlignSeconds += tp.SecAlignPerStop

		if !stop.Parsed {
			b.UnparsedStops++
			continue
		}
		if prev == nil {
			prev = stop
			continue
		}

		if prev.Zone != stop.Zone {
			b.ZoneSwitchSeconds += tp.ZoneSwitchSeconds
		}

		walk := segmentWalk(prev.Location, stop.Location, tp)
		if prev.Location.CorridorNum != stop.Location.CorridorNum {
			b.CorridorChangeSeconds += tp.SecPerCorridorChange
		}
		b.WalkingSeconds += walk

		prev = stop
	}

	for _, stop := range ordered {
		if stop.Parsed && stop.Location.IsUpperFloor {
			b.StairsSeconds = tp.SecStairsUp + tp.SecStairsDown
			break
		}
	}
	return b
}

// segmentWalk is the movement cost between two parsed stops: corridor
// steps when the corridor changes, else bay steps, else position steps.
// Segments touching the upper floor are slower by the configured
// multiplier.
func segmentWalk(from, to LocationSpec, tp params.TravelParams) float64 {
	var walk float64
	switch {
	case from.CorridorNum != to.CorridorNum:
		walk = tp.SecPerCorridorStep * absInt(from.CorridorNum-to.CorridorNum)
	case from.BayNum != to.BayNum:
		walk = tp.SecPerBayStep * absInt(from.BayNum-to.BayNum)
	default:
		walk = tp.SecPerPosStep * absInt(from.PositionNum-to.PositionNum)
	}
	if from.IsUpperFloor || to.IsUpperFloor {
		walk *= tp.UpperWalkMultiplier
	}
	return walk
}

func stopKey(s Stop) string {
	if !s.Parsed {
		return "?" + s.Zone + "|" + s.Raw
	}
	return s.Zone + "|" + s.Location.Corridor + "-" + s.Location.Bay + "-" +
		s.Location.Level + s.Location.Position
}

func normalizeZone(zone string) string {
	z := normalizeUpper(zone)
	if z == "" {
		return string(model.ZoneMain)
	}
	return z
}

func absInt(n int) float64 {
	if n < 0 {
		n = -n
	}
	return float64(n)
}
