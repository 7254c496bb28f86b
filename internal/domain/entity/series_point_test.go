package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpochMillis(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		wantMs    int64
	}{
		{name: "integer", raw: "1704096000000", wantValid: true, wantMs: 1704096000000},
		{name: "float", raw: "1704096000000.75", wantValid: true, wantMs: 1704096000000},
		{name: "exponent", raw: "1.7040960e12", wantValid: true, wantMs: 1704096000000},
		{name: "padded", raw: "  42 ", wantValid: true, wantMs: 42},
		{name: "empty", raw: "", wantValid: false},
		{name: "text", raw: "yesterday", wantValid: false},
		{name: "nan", raw: "NaN", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEpochMillis(tt.raw)
			assert.Equal(t, tt.wantValid, got.Valid())
			if tt.wantValid {
				assert.Equal(t, tt.wantMs, got.Millis())
			}
		})
	}
}

func TestEpochMillis_UnmarshalJSON(t *testing.T) {
	var points []RegistrationPoint
	payload := `[
		{"time": 1704096000000, "count": 3},
		{"time": "1704099600000", "count": 4},
		{"time": "not-a-time", "count": 5},
		{"time": null, "count": 6}
	]`

	require.NoError(t, json.Unmarshal([]byte(payload), &points))
	require.Len(t, points, 4)

	assert.True(t, points[0].Time.Valid())
	assert.Equal(t, int64(1704096000000), points[0].Time.Millis())
	assert.True(t, points[1].Time.Valid())
	assert.Equal(t, int64(1704099600000), points[1].Time.Millis())
	assert.False(t, points[2].Time.Valid())
	assert.False(t, points[3].Time.Valid())
	assert.EqualValues(t, 5, points[2].Count)
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	t.Run("integer and float notation in one payload", func(t *testing.T) {
		var points []RegistrationPoint
		payload := `[{"time":"1704096000000","count":5},{"time":1704099600000,"count":3.0}]`

		require.NoError(t, json.Unmarshal([]byte(payload), &points))
		require.Len(t, points, 2)
		assert.EqualValues(t, 5, points[0].Count)
		assert.EqualValues(t, 3, points[1].Count)
		assert.Equal(t, 5.0, points[0].RecordValue())
	})

	t.Run("numeric strings and garbage", func(t *testing.T) {
		var points []RequestPoint
		payload := `[{"time":1,"count":"25","sum":"1e2"},{"time":2,"count":"n/a","sum":null},{"time":3,"count":true,"sum":4}]`

		require.NoError(t, json.Unmarshal([]byte(payload), &points))
		require.Len(t, points, 3)
		assert.EqualValues(t, 25, points[0].Count)
		assert.EqualValues(t, 100, points[0].Sum)
		assert.Equal(t, 25.0, points[0].SuccessRate())
		assert.EqualValues(t, 0, points[1].Count)
		assert.EqualValues(t, 0, points[1].Sum)
		assert.EqualValues(t, 0, points[2].Count)
		assert.EqualValues(t, 4, points[2].Sum)
	})
}

func TestEpochMillis_Time(t *testing.T) {
	ts := EpochMillisFromTime(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))

	got, ok := ts.Time(time.FixedZone("UTC-3", -3*3600))
	require.True(t, ok)
	assert.Equal(t, 5, got.Hour())

	_, ok = EpochMillis{}.Time(time.UTC)
	assert.False(t, ok)
}

func TestEpochMillis_MarshalJSON(t *testing.T) {
	out, err := json.Marshal([]EpochMillis{NewEpochMillis(10), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[10, null]`, string(out))
}

func TestRequestPoint_SuccessRate(t *testing.T) {
	tests := []struct {
		name     string
		point    RequestPoint
		expected float64
	}{
		{name: "quarter", point: RequestPoint{Count: 25, Sum: 100}, expected: 25},
		{name: "rounds half up", point: RequestPoint{Count: 1, Sum: 8}, expected: 13},
		{name: "rounds down", point: RequestPoint{Count: 1, Sum: 3}, expected: 33},
		{name: "zero sum", point: RequestPoint{Count: 4, Sum: 0}, expected: 0},
		{name: "negative sum", point: RequestPoint{Count: 4, Sum: -1}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.point.SuccessRate())
		})
	}
}

func TestIncomePoint_Decoding(t *testing.T) {
	var points []IncomePoint
	require.NoError(t, json.Unmarshal([]byte(`[{"time": 1, "count": "1520.35"}, {"time": 2, "count": 80}]`), &points))

	assert.True(t, points[0].Amount.Equal(decimal.RequireFromString("1520.35")))
	assert.Equal(t, 80.0, points[1].RecordValue())
}
