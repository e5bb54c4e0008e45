// Package estimate implements the order time estimation engine: location
// parsing, travel, pick and pack cost models, and the orchestrator that
// combines them into a per-order breakdown.
package estimate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/warelight/warelight/internal/params"
)

// ErrBadLocation is returned when a location string does not match the
// configured pattern. Callers decide the fallback; the parser never
// guesses.
var ErrBadLocation = errors.New("malformed location")

// LocationSpec is the parsed decomposition of a warehouse location string
// such as "10-01-A02".
type LocationSpec struct {
	Corridor     string
	Bay          string
	Level        string
	Position     string
	CorridorNum  int
	BayNum       int
	PositionNum  int
	IsUpperFloor bool
}

// Parser parses location strings against a configurable pattern and
// classifies corridors as ground or upper floor. Compile it once per
// parameter snapshot.
type Parser struct {
	rx    *regexp.Regexp
	upper map[string]bool
}

// NewParser compiles the location grammar. The pattern must define the
// corridor, bay, level and pos capture groups; params.Parse guarantees
// this for validated parameter sets.
func NewParser(lp params.LocationParams) (*Parser, error) {
	rx, err := regexp.Compile(lp.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid location pattern: %w", err)
	}
	for _, group := range []string{"corridor", "bay", "level", "pos"} {
		if rx.SubexpIndex(group) < 0 {
			return nil, fmt.Errorf("location pattern missing group %q", group)
		}
	}

	upper := make(map[string]bool, len(lp.UpperFloorCorridors))
	for _, c := range lp.UpperFloorCorridors {
		upper[padCorridor(c)] = true
	}
	return &Parser{rx: rx, upper: upper}, nil
}

// Parse decomposes a location string. Input is normalized first: internal
// whitespace is removed and the string is uppercased, so "31-04-e 02"
// parses the same as "31-04-E02". A mismatch returns ErrBadLocation.
func (p *Parser) Parse(location string) (LocationSpec, error) {
	clean := strings.ToUpper(strings.Join(strings.Fields(location), ""))
	if clean == "" {
		return LocationSpec{}, fmt.Errorf("%w: empty location", ErrBadLocation)
	}

	m := p.rx.FindStringSubmatch(clean)
	if m == nil {
		return LocationSpec{}, fmt.Errorf("%w: %q", ErrBadLocation, location)
	}

	spec := LocationSpec{
		Corridor: m[p.rx.SubexpIndex("corridor")],
		Bay:      m[p.rx.SubexpIndex("bay")],
		Level:    m[p.rx.SubexpIndex("level")],
		Position: m[p.rx.SubexpIndex("pos")],
	}

	var err error
	if spec.CorridorNum, err = strconv.Atoi(spec.Corridor); err != nil {
		return LocationSpec{}, fmt.Errorf("%w: corridor %q is not numeric", ErrBadLocation, spec.Corridor)
	}
	if spec.BayNum, err = strconv.Atoi(spec.Bay); err != nil {
		return LocationSpec{}, fmt.Errorf("%w: bay %q is not numeric", ErrBadLocation, spec.Bay)
	}
	if spec.PositionNum, err = strconv.Atoi(spec.Position); err != nil {
		return LocationSpec{}, fmt.Errorf("%w: position %q is not numeric", ErrBadLocation, spec.Position)
	}

	spec.IsUpperFloor = p.upper[padCorridor(spec.Corridor)]
	return spec, nil
}

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// padCorridor left-pads numeric corridor labels to two digits so "7" and
// "07" identify the same corridor.
func padCorridor(c string) string {
	c = strings.TrimSpace(c)
	if len(c) == 1 {
		return "0" + c
	}
	return c
}
