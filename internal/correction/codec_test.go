package correction

import (
	"encoding/json"
	"testing"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allKinds() []Correction {
	return []Correction{
		CategoryWhereLabelContains{Contains: "starbucks", ToLower: true, CorrectValue: "coffee"},
		CategoryWhereLabelContains{Contains: "SNCF", CorrectValue: "train", Comments: Note("ticket refunds")},
		CategoryFromLoc{LocID: 5, CorrectValue: "rent", Comments: Note("owner's fee")},
		DateFromLoc{LocID: 7, CorrectValue: "2024-03-01"},
		RowDropping{LocID: 3, Comments: Note("duplicate import")},
		RowDropping{LocID: 0},
	}
}

func TestEncode_KeyOrder(t *testing.T) {
	tests := []struct {
		correction Correction
		want       []string
	}{
		{allKinds()[0], []string{"contains", "to_lower", "correct_value", "comments", "class"}},
		{allKinds()[2], []string{"loc_id", "correct_value", "comments", "class"}},
		{allKinds()[3], []string{"loc_id", "correct_value", "comments", "class"}},
		{allKinds()[4], []string{"loc_id", "comments", "class"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.correction.Kind()), func(t *testing.T) {
			p := Encode(tt.correction)
			keys := make([]string, 0, len(p))
			for _, kv := range p {
				keys = append(keys, kv.Key)
			}
			assert.Equal(t, tt.want, keys)

			class, ok := p.Get(ClassKey)
			require.True(t, ok)
			assert.Equal(t, string(tt.correction.Kind()), class)
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, c := range allKinds() {
		t.Run(string(c.Kind()), func(t *testing.T) {
			got, err := Decode(Encode(c))
			require.NoError(t, err)
			assert.Equal(t, c, got)
		})
	}
}

func TestDecode_RoundTripThroughJSON(t *testing.T) {
	for _, c := range allKinds() {
		t.Run(string(c.Kind()), func(t *testing.T) {
			data, err := json.Marshal(Encode(c))
			require.NoError(t, err)

			var p Params
			require.NoError(t, json.Unmarshal(data, &p))

			got, err := Decode(p)
			require.NoError(t, err)
			assert.Equal(t, c, got)
		})
	}
}

func TestParams_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Encode(CategoryFromLoc{LocID: 5, CorrectValue: "rent"}))
	require.NoError(t, err)
	assert.Equal(t,
		`{"loc_id":5,"correct_value":"rent","comments":null,"class":"CategoryCorrectionFromLoc"}`,
		string(data))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:    "unknown class",
			params:  Params{{Key: "loc_id", Value: 1}, {Key: "class", Value: "NotARealCorrection"}},
			wantErr: ErrUnknownKind,
		},
		{
			name:    "missing class",
			params:  Params{{Key: "loc_id", Value: 1}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "class is not a string",
			params:  Params{{Key: "class", Value: 12}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "missing required parameter",
			params:  Params{{Key: "correct_value", Value: "rent"}, {Key: "class", Value: "CategoryCorrectionFromLoc"}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "null required parameter",
			params:  Params{{Key: "loc_id", Value: nil}, {Key: "class", Value: "RowDroppingFromLoc"}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "wrong parameter type",
			params:  Params{{Key: "loc_id", Value: "three"}, {Key: "class", Value: "RowDroppingFromLoc"}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "fractional row id",
			params:  Params{{Key: "loc_id", Value: json.Number("3.5")}, {Key: "class", Value: "RowDroppingFromLoc"}},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "unexpected parameter",
			params: Params{
				{Key: "loc_id", Value: 3},
				{Key: "correct_value", Value: "x"},
				{Key: "class", Value: "RowDroppingFromLoc"},
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "comments of the wrong type",
			params: Params{
				{Key: "loc_id", Value: 3},
				{Key: "comments", Value: true},
				{Key: "class", Value: "RowDroppingFromLoc"},
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.params)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestDecode_UnknownClassIsConfigurationError(t *testing.T) {
	_, err := Decode(Params{{Key: "class", Value: "NotARealCorrection"}})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "NotARealCorrection")
}

func TestDecode_CommentsOptional(t *testing.T) {
	c, err := Decode(Params{{Key: "loc_id", Value: 3}, {Key: "class", Value: "RowDroppingFromLoc"}})
	require.NoError(t, err)
	assert.Equal(t, RowDropping{LocID: 3}, c)
}

func TestKindsAreRegistered(t *testing.T) {
	for _, kind := range Kinds() {
		_, ok := registry[kind]
		assert.True(t, ok, "kind %s", kind)
	}
	assert.Len(t, registry, len(Kinds()))
}
