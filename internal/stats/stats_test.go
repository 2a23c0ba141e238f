package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/period"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCompute_Scenario(t *testing.T) {
	txs := []model.Transaction{
		{Price: "500000", Status: model.StatusSold, ListedDate: day(2024, 1, 1), SaleDate: day(2024, 1, 31)},
		{Price: "700000", Status: model.StatusSold, ListedDate: day(2024, 2, 1), SaleDate: day(2024, 3, 2)},
	}

	snap := Compute(txs, Policy{})
	assert.Equal(t, int64(2), snap.TotalSold)
	assert.True(t, decimal.NewFromInt(1200000).Equal(snap.TotalRevenue))
	assert.True(t, decimal.NewFromInt(600000).Equal(snap.AvgPrice))
	assert.Equal(t, int64(30), snap.AvgDaysOnMarket)
}

func TestCompute_Empty(t *testing.T) {
	snap := Compute(nil, Policy{})
	assert.Zero(t, snap.TotalSold)
	assert.True(t, snap.TotalRevenue.IsZero())
	assert.True(t, snap.AvgPrice.IsZero())
	assert.Zero(t, snap.AvgDaysOnMarket)
}

func TestCompute_AvgPriceIsRevenueOverCount(t *testing.T) {
	txs := []model.Transaction{
		{Price: "333333.33"},
		{Price: "100000"},
		{Price: "1"},
	}
	snap := Compute(txs, Policy{})
	want := snap.TotalRevenue.Div(decimal.NewFromInt(snap.TotalSold))
	assert.True(t, want.Equal(snap.AvgPrice))

	got, _ := snap.AvgPrice.Float64()
	assert.InDelta(t, 433334.33/3, got, 1e-6)
}

func TestCompute_MissingDatesLeftOutOfDenominator(t *testing.T) {
	txs := []model.Transaction{
		{Price: "1", ListedDate: day(2024, 1, 1), SaleDate: day(2024, 1, 11)},
		{Price: "1", ListedDate: day(2024, 1, 1)},
		{Price: "1", SaleDate: day(2024, 1, 5)},
		{Price: "1", ListedDate: &time.Time{}, SaleDate: day(2024, 1, 5)},
	}
	snap := Compute(txs, Policy{})
	assert.Equal(t, int64(4), snap.TotalSold)
	assert.Equal(t, int64(10), snap.AvgDaysOnMarket)
}

func TestCompute_NoDatePairs(t *testing.T) {
	txs := []model.Transaction{{Price: "10"}, {Price: "20", ListedDate: day(2024, 5, 1)}}
	assert.Zero(t, Compute(txs, Policy{}).AvgDaysOnMarket)
}

func TestCompute_SaleBeforeListingIgnored(t *testing.T) {
	txs := []model.Transaction{
		{Price: "1", ListedDate: day(2024, 3, 1), SaleDate: day(2024, 2, 1)},
		{Price: "1", ListedDate: day(2024, 3, 1), SaleDate: day(2024, 3, 5)},
	}
	assert.Equal(t, int64(4), Compute(txs, Policy{}).AvgDaysOnMarket)
}

func TestCompute_Rounding(t *testing.T) {
	txs := []model.Transaction{
		{Price: "1", ListedDate: day(2024, 1, 1), SaleDate: day(2024, 1, 2)},
		{Price: "1", ListedDate: day(2024, 1, 1), SaleDate: day(2024, 1, 3)},
	}
	// (1 + 2) / 2 = 1.5 rounds half away from zero
	assert.Equal(t, int64(2), Compute(txs, Policy{}).AvgDaysOnMarket)
}

func TestCompute_MalformedPriceCountsAsZero(t *testing.T) {
	txs := []model.Transaction{{Price: "abc"}, {Price: "300"}}
	snap := Compute(txs, Policy{})
	assert.Equal(t, int64(2), snap.TotalSold)
	assert.True(t, decimal.NewFromInt(300).Equal(snap.TotalRevenue))
	assert.True(t, decimal.NewFromInt(150).Equal(snap.AvgPrice))
}

func TestCompute_StatusPolicy(t *testing.T) {
	txs := []model.Transaction{
		{Price: "100", Status: model.StatusSold},
		{Price: "200", Status: model.StatusSettled},
		{Price: "900", Status: model.StatusListed},
	}

	assert.Equal(t, int64(3), Compute(txs, Policy{}).TotalSold)

	policy, err := NewPolicy([]string{"sold", " settled"})
	require.NoError(t, err)
	snap := Compute(txs, policy)
	assert.Equal(t, int64(2), snap.TotalSold)
	assert.True(t, decimal.NewFromInt(300).Equal(snap.TotalRevenue))
}

func TestNewPolicy_RejectsUnknownStatus(t *testing.T) {
	_, err := NewPolicy([]string{"sold", "archived"})
	assert.Error(t, err)
}

func TestDaysOnMarket_IgnoresTimeOfDay(t *testing.T) {
	listed := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	sold := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)
	days, ok := DaysOnMarket(&model.Transaction{ListedDate: &listed, SaleDate: &sold})
	assert.True(t, ok)
	assert.Equal(t, int64(1), days)
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	w, err := period.Parse("90d", now)
	require.NoError(t, err)

	txs := []model.Transaction{
		{Price: "100", SaleDate: day(2024, 2, 10)},
		{Price: "250", SaleDate: day(2024, 2, 20)},
		{Price: "400", SaleDate: day(2024, 4, 1)},
		{Price: "999", SaleDate: day(2023, 6, 1)},
	}

	series := MonthlySeries(txs, w, Policy{})
	require.Len(t, series, 4)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04"},
		[]string{series[0].Month, series[1].Month, series[2].Month, series[3].Month})
	assert.Equal(t, int64(2), series[1].Sold)
	assert.True(t, decimal.NewFromInt(350).Equal(series[1].Revenue))
	assert.Zero(t, series[2].Sold)
	assert.True(t, decimal.NewFromInt(400).Equal(series[3].Revenue))
}

func TestMonthlySeries_Unbounded(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	w, _ := period.Parse("all", now)

	assert.Empty(t, MonthlySeries(nil, w, Policy{}))

	series := MonthlySeries([]model.Transaction{{Price: "1", SaleDate: day(2024, 1, 9)}}, w, Policy{})
	assert.Len(t, series, 3)
}

func TestAgentSeries(t *testing.T) {
	ava := model.Agent{Name: "Ava"}
	ava.ID = uuid.New()
	ben := model.Agent{Name: "Ben"}
	ben.ID = uuid.New()
	idle := model.Agent{Name: "Idle"}
	idle.ID = uuid.New()

	txs := []model.Transaction{
		{AgentID: &ava.ID, Price: "500000", Commission: "10000", ListedDate: day(2024, 1, 1), SaleDate: day(2024, 1, 21)},
		{AgentID: &ben.ID, Price: "900000", Commission: "18000"},
		{AgentID: &ben.ID, Price: "100000", Commission: "2000"},
		{Price: "1"},
	}

	series := AgentSeries(txs, []model.Agent{ava, idle, ben}, Policy{})
	require.Len(t, series, 3)
	assert.Equal(t, "Ben", series[0].Name)
	assert.Equal(t, int64(2), series[0].Sales)
	assert.True(t, decimal.NewFromInt(20000).Equal(series[0].Commission))
	assert.Equal(t, "Ava", series[1].Name)
	assert.Equal(t, int64(20), series[1].AvgDaysOnMarket)
	assert.Equal(t, "Idle", series[2].Name)
	assert.Zero(t, series[2].Sales)
}

func TestTopByPrice(t *testing.T) {
	txs := []model.Transaction{
		{Address: "a", Price: "500000"},
		{Address: "b", Price: "1200000"},
		{Address: "c", Price: "80000"},
		{Address: "d", Price: "640000", Status: model.StatusWithdrawn},
	}

	top := TopByPrice(txs, 2, Policy{})
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Address)
	assert.Equal(t, "d", top[1].Address)

	policy, err := NewPolicy([]string{"sold"})
	require.NoError(t, err)
	assert.Empty(t, TopByPrice(txs, 2, policy))
}
