package model

import "time"

// ClassificationRun records one invocation of the classification engine.
// Rows are append-only.
type ClassificationRun struct {
	StartedAt        time.Time
	FinishedAt       time.Time
	RunBy            string
	Notes            string
	ID               int64
	Threshold        int
	ItemsScanned     int
	ItemsUpdated     int
	ItemsNeedReview  int
	ItemsFailed      int
	SummerMode       bool
}

// EstimateRun is an audit snapshot of one order time estimation: the
// parameters in effect, the resulting breakdown, and why it ran.
type EstimateRun struct {
	CreatedAt        time.Time
	OrderNumber      string
	EstimatorVersion string
	ParamsSnapshot   string // JSON of the cost parameters used
	BreakdownJSON    string
	Reason           string
	ID               int64
	ParamsRevision   int
	TotalSeconds     float64
	TravelSeconds    float64
	PickSeconds      float64
	PackSeconds      float64
}

// EstimateLine is the per-line detail of an EstimateRun.
type EstimateLine struct {
	OrderNumber  string
	ItemCode     string
	Location     string
	UnitType     string
	ID           int64
	RunID        int64
	Quantity     int
	PickSeconds  float64
	WalkSeconds  float64
	TotalSeconds float64
}
