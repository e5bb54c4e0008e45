package estimate

import (
	"fmt"

	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
)

// EstimatorVersion tags audit snapshots with the algorithm revision.
const EstimatorVersion = "estimator_v1"

// LineEstimate is the per-line output written back to the order: handling
// seconds plus the walk seconds allocated to the first line at each
// visited location.
type LineEstimate struct {
	ItemCode     string
	Location     string
	UnitType     model.UnitType
	Quantity     int
	PickSeconds  float64
	WalkSeconds  float64
	TotalSeconds float64
}

// Estimate is the full time breakdown for one order.
type Estimate struct {
	OrderNumber     string
	ParamsVersion   string
	Lines           []LineEstimate
	Travel          TravelBreakdown
	ParamsRevision  int
	OverheadSeconds float64
	TravelSeconds   float64
	PickSeconds     float64
	PackSeconds     float64
	TotalSeconds    float64
	TotalMinutes    float64
	SummerMode      bool
}

// Estimator computes order time estimates against one immutable parameter
// snapshot. It holds no mutable state: identical inputs always produce an
// identical estimate.
type Estimator struct {
	parser     *Parser
	params     params.Parameters
	revision   int
	summerMode bool
}

// NewEstimator validates the parameter snapshot and compiles the location
// grammar once.
func NewEstimator(p params.Parameters, revision int, summerMode bool) (*Estimator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	parser, err := NewParser(p.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to build location parser: %w", err)
	}
	return &Estimator{
		parser:     parser,
		params:     p,
		revision:   revision,
		summerMode: summerMode,
	}, nil
}

// Parser exposes the compiled location parser for callers that need to
// inspect individual locations.
func (e *Estimator) Parser() *Parser { return e.parser }

// EstimateOrder computes the full breakdown for one order:
//
//	total = overhead + travel(distinct stops) + sum(pick per line) + pack
//
// A malformed line location never fails the estimate; the stop costs its
// alignment only and the condition is surfaced via Travel.UnparsedStops.
func (e *Estimator) EstimateOrder(order model.Order, classOf func(itemCode string) *model.ItemClass) Estimate {
	est := Estimate{
		OrderNumber:    order.Number,
		ParamsVersion:  e.params.Version,
		ParamsRevision: e.revision,
		SummerMode:     e.summerMode,
	}
	if len(order.Lines) == 0 {
		return est
	}

	stops := BuildStops(order.Lines, e.parser)
	ordered := OrderStops(stops)
	est.Travel = TravelSeconds(ordered, e.params.Travel)
	est.TravelSeconds = est.Travel.Total()

	walkByStop := e.allocateWalk(ordered)

	est.Lines = make([]LineEstimate, 0, len(order.Lines))
	walkSeen := make(map[string]bool, len(ordered))
	for _, line := range order.Lines {
		class := classOf(line.ItemCode)

		loc, parseErr := e.parser.Parse(line.Location)
		parsed := parseErr == nil

		pickSec := PickSeconds(line, class, loc, parsed, e.params, e.summerMode)
		est.PickSeconds += pickSec

		stop := Stop{Zone: normalizeZone(line.Zone), Raw: line.Location, Location: loc, Parsed: parsed}
		key := stopKey(stop)
		var walkSec float64
		if !walkSeen[key] {
			walkSeen[key] = true
			walkSec = walkByStop[key]
		}

		est.Lines = append(est.Lines, LineEstimate{
			ItemCode:     line.ItemCode,
			Location:     line.Location,
			UnitType:     model.NormalizeUnitType(line.UnitType),
			Quantity:     line.Quantity,
			PickSeconds:  pickSec,
			WalkSeconds:  walkSec,
			TotalSeconds: pickSec + walkSec,
		})
	}

	est.PackSeconds = PackSeconds(order.Lines, classOf, e.params.Pack, e.summerMode)
	est.OverheadSeconds = e.params.Overhead.StartSeconds + e.params.Overhead.EndSeconds

	est.TotalSeconds = est.OverheadSeconds + est.TravelSeconds + est.PickSeconds + est.PackSeconds
	est.TotalMinutes = est.TotalSeconds / 60

	return est
}

// allocateWalk attributes the walk leading into each stop so per-line
// write-back can carry its share of the travel: the first stop gets its
// alignment, each later stop the alignment plus the movement from its
// predecessor.
func (e *Estimator) allocateWalk(ordered []Stop) map[string]float64 {
	tp := e.params.Travel
	walk := make(map[string]float64, len(ordered))

	var prev *Stop
	for i := range ordered {
		stop := &ordered[i]
		seconds := tp.SecAlignPerStop
		if stop.Parsed && prev != nil {
			if prev.Zone != stop.Zone {
				seconds += tp.ZoneSwitchSeconds
			}
			if prev.Location.CorridorNum != stop.Location.CorridorNum {
				seconds += tp.SecPerCorridorChange
			}
			seconds += segmentWalk(prev.Location, stop.Location, tp)
		}
		walk[stopKey(*stop)] = seconds
		if stop.Parsed {
			prev = stop
		}
	}
	return walk
}
