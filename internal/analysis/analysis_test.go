package analysis

import (
	"testing"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{ID: 0, Date: "2022-04-02", Week: 13, Month: 4, Year: 2022, Label: "Monoprix", Shared: SharePersonal, RealAmount: -40, MainCategory: "dailyLife", CategoryName: "groceries"},
		{ID: 1, Date: "2022-04-09", Week: 14, Month: 4, Year: 2022, Label: "Starbucks", Shared: ShareShared, RealAmount: -10, MainCategory: "dailyLife", CategoryName: "restaurant"},
		{ID: 2, Date: "2022-05-01", Week: 17, Month: 5, Year: 2022, Label: "Loyer", Shared: ShareShared, RealAmount: -500, MainCategory: "appartment", CategoryName: "rent"},
		{ID: 3, Date: "2024-04-03", Week: 14, Month: 4, Year: 2024, Label: "Monoprix", Shared: SharePersonal, RealAmount: -30, MainCategory: "dailyLife", CategoryName: "groceries"},
		{ID: 4, Date: "2024-05-01", Week: 18, Month: 5, Year: 2024, Label: "Loyer", Shared: ShareShared, RealAmount: -600, MainCategory: "appartment", CategoryName: "rent"},
		{ID: 5, Date: "2024-05-02", Week: 18, Month: 5, Year: 2024, Label: "Salary", Shared: SharePersonal, RealAmount: 3000, MainCategory: "income", CategoryName: "salary"},
		{ID: 6, Date: "2024-09-01", Week: 35, Month: 9, Year: 2024, Label: "Cinema", Shared: SharePersonal, RealAmount: -12, MainCategory: "chillOut", CategoryName: "movies"},
	}
}

func pivots(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Pivot)
	}
	return out
}

func TestReshape_AllCategories(t *testing.T) {
	rows := Reshape(sampleRecords(), DefaultOptions())
	require.Len(t, rows, 7)

	// Stable sort on category name.
	assert.Equal(t, []string{"dailyLife", "dailyLife", "chillOut", "appartment", "appartment", "dailyLife", "income"}, pivots(rows))
	assert.Equal(t, "4 - 2022", rows[0].DisplayDate)
}

func TestReshape_SingleCategory(t *testing.T) {
	opts := DefaultOptions()
	opts.Category = "dailyLife"
	opts.Temporal = TemporalWeekly

	rows := Reshape(sampleRecords(), opts)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"groceries", "groceries", "restaurant"}, pivots(rows))
	assert.Equal(t, "13 - 2022", rows[0].DisplayDate)
}

func TestReshape_SharedModes(t *testing.T) {
	tests := []struct {
		mode    SharedMode
		wantLen int
		pivot   string
	}{
		{SharedInclude, 7, "appartment"},
		{SharedExclude, 4, "chillOut"},
		{SharedOnly, 3, "appartment"},
		{SharedDifferentiate, 7, "appartment-share"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Shared = tt.mode

			rows := Reshape(sampleRecords(), opts)
			require.Len(t, rows, tt.wantLen)
			assert.Contains(t, pivots(rows), tt.pivot)
		})
	}
}

func TestReshape_OnlyDifferentiateSplitsPivot(t *testing.T) {
	opts := DefaultOptions()
	opts.Shared = SharedExclude
	for _, p := range pivots(Reshape(sampleRecords(), opts)) {
		assert.NotContains(t, p, "-perso")
	}
}

func TestReshape_DailyAndMonths(t *testing.T) {
	opts := DefaultOptions()
	opts.Temporal = TemporalDaily
	opts.Months = []int{4, 5, 6, 7, 8}

	rows := Reshape(sampleRecords(), opts)
	require.Len(t, rows, 6)
	for _, r := range rows {
		assert.Equal(t, r.Date, r.DisplayDate)
		assert.NotEqual(t, 9, r.Month)
	}
}

func TestBuildChart(t *testing.T) {
	opts := DefaultOptions()
	rows := Reshape(sampleRecords(), opts)

	chart := BuildChart(rows, opts)
	assert.Equal(t, []string{"4 - 2022", "5 - 2022", "4 - 2024", "5 - 2024", "9 - 2024"}, chart.XValues)
	assert.Equal(t, []string{"appartment", "chillOut", "dailyLife", "income"}, chart.Series)
	assert.Nil(t, chart.Scale)

	v, ok := chart.Value("4 - 2022", "dailyLife")
	require.True(t, ok)
	assert.InDelta(t, -50, v, 1e-9)
	assert.InDelta(t, 2400, chart.ColumnTotal("5 - 2024"), 1e-9)

	_, ok = chart.Value("9 - 2024", "income")
	assert.False(t, ok)
}

func TestBuildChart_Count(t *testing.T) {
	opts := DefaultOptions()
	opts.Aggregation = AggregationCount
	chart := BuildChart(Reshape(sampleRecords(), opts), opts)

	v, ok := chart.Value("4 - 2022", "dailyLife")
	require.True(t, ok)
	assert.InDelta(t, 2, v, 1e-9)
}

func TestYScale(t *testing.T) {
	opts := DefaultOptions()
	opts.Category = "appartment"
	rows := Reshape(sampleRecords(), opts)

	scale := YScale(rows, opts)
	require.NotNil(t, scale)
	assert.InDelta(t, -610, scale.Min, 1e-9)
	assert.InDelta(t, -490, scale.Max, 1e-9)

	opts.Aggregation = AggregationCount
	assert.Nil(t, YScale(rows, opts))
}

func TestCompareYears(t *testing.T) {
	rows := Reshape(sampleRecords(), DefaultOptions())
	deltas := CompareYears(rows, 2022, 2024)
	require.Len(t, deltas, 3, "income is not an expense")

	assert.Equal(t, "appartment", deltas[0].Pivot)
	assert.InDelta(t, -100, deltas[0].Delta, 1e-9)
	assert.InDelta(t, -20, deltas[0].DeltaPct, 1e-9)
	assert.Equal(t, ColorOverspent, deltas[0].Color)

	assert.Equal(t, "chillOut", deltas[1].Pivot)
	assert.False(t, deltas[1].HasPct())

	assert.Equal(t, "dailyLife", deltas[2].Pivot)
	assert.InDelta(t, 20, deltas[2].Delta, 1e-9)
	assert.InDelta(t, 40, deltas[2].DeltaPct, 1e-9)
	assert.Equal(t, ColorSaved, deltas[2].Color)
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.Category = "crypto"
	require.ErrorIs(t, bad.Validate(), common.ErrInvalidConfig)

	bad = DefaultOptions()
	bad.Months = []int{13}
	require.ErrorIs(t, bad.Validate(), common.ErrInvalidConfig)
}

func TestParseSharedMode(t *testing.T) {
	mode, err := ParseSharedMode("differenciate")
	require.NoError(t, err)
	assert.Equal(t, SharedDifferentiate, mode)

	mode, err = ParseSharedMode(" Only ")
	require.NoError(t, err)
	assert.Equal(t, SharedOnly, mode)

	_, err = ParseSharedMode("sometimes")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestNextPrev(t *testing.T) {
	assert.Equal(t, AggregationSum, Next(Aggregations, AggregationCount))
	assert.Equal(t, AggregationCount, Next(Aggregations, AggregationSum))
	assert.Equal(t, TemporalMonthly, Prev(Temporals, TemporalDaily))
	assert.Equal(t, "travel", Prev(MotherCategories, CategoryAll))
}

func TestKnownCategories(t *testing.T) {
	assert.Equal(t,
		[]string{"groceries", "movies", "rent", "restaurant", "salary"},
		KnownCategories(sampleRecords()))
}
