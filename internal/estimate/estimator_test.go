package estimate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
)

func noClass(string) *model.ItemClass { return nil }

func newTestEstimator(t *testing.T, summer bool) *Estimator {
	t.Helper()
	est, err := NewEstimator(params.Default(), 1, summer)
	require.NoError(t, err)
	return est
}

func TestNewEstimatorRejectsInvalidParams(t *testing.T) {
	p := params.Default()
	p.Travel.SecStairsUp = -1
	_, err := NewEstimator(p, 1, false)
	assert.ErrorIs(t, err, params.ErrInvalidParams)
}

func TestEstimateOrderEmpty(t *testing.T) {
	e := newTestEstimator(t, false)

	est := e.EstimateOrder(model.Order{Number: "ORD-1"}, noClass)
	assert.Equal(t, "ORD-1", est.OrderNumber)
	assert.Zero(t, est.TotalSeconds)
	assert.Zero(t, est.TotalMinutes)
	assert.Empty(t, est.Lines)
	assert.Equal(t, 1, est.ParamsRevision)
	assert.Equal(t, "v1", est.ParamsVersion)
}

func TestEstimateOrderComponentsSum(t *testing.T) {
	e := newTestEstimator(t, false)

	order := model.Order{
		Number: "ORD-2",
		Lines: []model.OrderLine{
			{ItemCode: "A", Location: "10-01-A02", UnitType: "PCS", Quantity: 2},
			{ItemCode: "B", Location: "12-03-B01", UnitType: "PK", Quantity: 1},
		},
	}

	est := e.EstimateOrder(order, noClass)
	require.Len(t, est.Lines, 2)

	var pickSum float64
	for _, line := range est.Lines {
		pickSum += line.PickSeconds
	}
	assert.InDelta(t, pickSum, est.PickSeconds, 1e-9)
	assert.InDelta(t, est.Travel.Total(), est.TravelSeconds, 1e-9)
	assert.InDelta(t,
		est.OverheadSeconds+est.TravelSeconds+est.PickSeconds+est.PackSeconds,
		est.TotalSeconds, 1e-9)
	assert.InDelta(t, est.TotalSeconds/60, est.TotalMinutes, 1e-9)

	p := params.Default()
	assert.InDelta(t, p.Overhead.StartSeconds+p.Overhead.EndSeconds, est.OverheadSeconds, 1e-9)
}

func TestEstimateOrderWalkAllocation(t *testing.T) {
	e := newTestEstimator(t, false)

	// Two lines share the first location; the walk lands on the first of
	// them only, and the sum of allocated walk equals the walkable travel.
	order := model.Order{
		Number: "ORD-3",
		Lines: []model.OrderLine{
			{ItemCode: "A", Location: "10-01-A02", UnitType: "PCS", Quantity: 1},
			{ItemCode: "B", Location: "10-01-A02", UnitType: "PCS", Quantity: 1},
			{ItemCode: "C", Location: "10-04-A02", UnitType: "PCS", Quantity: 1},
		},
	}

	est := e.EstimateOrder(order, noClass)
	require.Len(t, est.Lines, 3)

	assert.NotZero(t, est.Lines[0].WalkSeconds)
	assert.Zero(t, est.Lines[1].WalkSeconds)
	assert.NotZero(t, est.Lines[2].WalkSeconds)

	var walkSum float64
	for _, line := range est.Lines {
		walkSum += line.WalkSeconds
		assert.InDelta(t, line.PickSeconds+line.WalkSeconds, line.TotalSeconds, 1e-9)
	}
	assert.InDelta(t, est.TravelSeconds-est.Travel.StairsSeconds, walkSum, 1e-9)
}

func TestEstimateOrderUnparsedLocationSurfaced(t *testing.T) {
	e := newTestEstimator(t, false)

	order := model.Order{
		Number: "ORD-4",
		Lines: []model.OrderLine{
			{ItemCode: "A", Location: "10-01-A02", UnitType: "PCS", Quantity: 1},
			{ItemCode: "B", Location: "RECEIVING", UnitType: "PCS", Quantity: 1},
		},
	}

	est := e.EstimateOrder(order, noClass)
	assert.Equal(t, 1, est.Travel.UnparsedStops)
	assert.Positive(t, est.TotalSeconds)
}

func TestEstimateOrderDeterministic(t *testing.T) {
	e := newTestEstimator(t, false)

	order := model.Order{
		Number: "ORD-5",
		Lines: []model.OrderLine{
			{ItemCode: "A", Location: "70-01-C02", UnitType: "BX", Quantity: 3},
			{ItemCode: "B", Location: "10-02-A01", UnitType: "PCS", Quantity: 1},
		},
	}

	first := e.EstimateOrder(order, noClass)
	second := e.EstimateOrder(order, noClass)
	assert.Equal(t, first, second)
}

func TestEstimateOrderSummerModeAddsHeatHandling(t *testing.T) {
	heat := &model.ItemClass{TemperatureSensitivity: ptr(model.TempHeatSensitive)}
	classOf := func(string) *model.ItemClass { return heat }

	order := model.Order{
		Number: "ORD-6",
		Lines: []model.OrderLine{
			{ItemCode: "CHOC", Location: "10-01-A01", UnitType: "PCS", Quantity: 1},
		},
	}

	winter := newTestEstimator(t, false).EstimateOrder(order, classOf)
	summer := newTestEstimator(t, true).EstimateOrder(order, classOf)

	p := params.Default()
	extra := p.Pick.HandlingSeconds[params.HandlingHeatSensitiveSummer] + p.Pack.SpecialGroupSeconds
	assert.InDelta(t, winter.TotalSeconds+extra, summer.TotalSeconds, 1e-9)
	assert.True(t, summer.SummerMode)
	assert.False(t, winter.SummerMode)
}

func TestEstimateBatch(t *testing.T) {
	e := newTestEstimator(t, false)

	orders := []model.Order{
		{Number: "ORD-A", Lines: []model.OrderLine{{ItemCode: "X", Location: "10-01-A01", Quantity: 1}}},
		{Number: "ORD-B", Lines: []model.OrderLine{{ItemCode: "Y", Location: "11-02-B03", Quantity: 2}}},
	}

	result, err := e.EstimateBatch(context.Background(), orders, noClass, 0)
	require.NoError(t, err)
	assert.Len(t, result.Estimates, 2)
	assert.Empty(t, result.Failures)
}

func TestEstimateBatchSizeLimit(t *testing.T) {
	e := newTestEstimator(t, false)

	orders := []model.Order{
		{Number: "ORD-A"},
		{Number: "ORD-B"},
		{Number: "ORD-C"},
	}

	result, err := e.EstimateBatch(context.Background(), orders, noClass, 2)
	require.NoError(t, err)
	assert.Len(t, result.Estimates, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "ORD-C", result.Failures[0].OrderNumber)
}

func TestEstimateBatchContextCancel(t *testing.T) {
	e := newTestEstimator(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EstimateBatch(ctx, []model.Order{{Number: "ORD-A"}}, noClass, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEstimateBatchRecoversPanic(t *testing.T) {
	e := newTestEstimator(t, false)

	orders := []model.Order{
		{Number: "ORD-BAD", Lines: []model.OrderLine{{ItemCode: "X", Location: "10-01-A01", Quantity: 1}}},
		{Number: "ORD-OK", Lines: []model.OrderLine{{ItemCode: "Y", Location: "10-02-A01", Quantity: 1}}},
	}
	classOf := func(code string) *model.ItemClass {
		if code == "X" {
			panic("broken lookup")
		}
		return nil
	}

	result, err := e.EstimateBatch(context.Background(), orders, classOf, 0)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "ORD-BAD", result.Failures[0].OrderNumber)
	assert.Contains(t, result.Failures[0].Err.Error(), "panic")
	require.Len(t, result.Estimates, 1)
	assert.Equal(t, "ORD-OK", result.Estimates[0].OrderNumber)
}
