package disclosure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport_Malformed(t *testing.T) {
	inputs := map[string]string{
		"empty":              ``,
		"null":               `null`,
		"empty object":       `{}`,
		"invalid json":       `{"sections": [`,
		"sections not array": `{"sections": "oops"}`,
		"array root":         `[1, 2, 3]`,
		"string root":        `"not a document"`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			r := ParseReport([]byte(raw))
			assert.Empty(t, r.Sections)
		})
	}
}

func TestParseReport_SkipsBadSections(t *testing.T) {
	raw := `{"sections": [1, "x", null, {"title": "ok", "data": {"a": 1}}]}`
	r := ParseReport([]byte(raw))

	require.Len(t, r.Sections, 1)
	assert.Equal(t, "ok", r.Sections[0].Title)
	assert.IsType(t, Object{}, r.Sections[0].Data)
}

func TestParseReport_DoubleEncoded(t *testing.T) {
	raw := `"{\"sections\":[{\"title\":\"일반 현황\",\"data\":[{\"title\":\"대표자\",\"value\":\"김대표\"}]}]}"`
	r := ParseReport([]byte(raw))

	assert.Equal(t, "김대표", CEOName(r))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want SectionData
	}{
		{
			name: "pair list by title",
			raw:  `{"sections":[{"title":"s","data":[{"title":"업종","value":"한식"}]}]}`,
			want: PairList{{Label: "업종", Value: "한식"}},
		},
		{
			name: "pair list by key",
			raw:  `{"sections":[{"title":"s","data":[{"key":"join_fee","value":"100만원"}]}]}`,
			want: PairList{{Label: "join_fee", Value: "100만원"}},
		},
		{
			name: "region table",
			raw:  `{"sections":[{"title":"s","data":[{"region":"전체","year_data":{"2023":{"total":"1"}}}]}]}`,
			want: RegionTable{{Region: "전체", YearData: map[string]map[string]any{"2023": {"total": "1"}}}},
		},
		{
			name: "rows",
			raw:  `{"sections":[{"title":"s","data":[{"year":"2023","average_sales":"1억"}]}]}`,
			want: RowList{{"year": "2023", "average_sales": "1억"}},
		},
		{
			name: "object",
			raw:  `{"sections":[{"title":"s","data":{"join_fee":"1"}}]}`,
			want: Object{"join_fee": "1"},
		},
		{
			name: "scalar",
			raw:  `{"sections":[{"title":"s","data":"n/a"}]}`,
			want: Empty{},
		},
		{
			name: "missing data",
			raw:  `{"sections":[{"title":"s"}]}`,
			want: Empty{},
		},
		{
			name: "array of scalars",
			raw:  `{"sections":[{"title":"s","data":[1,2]}]}`,
			want: Empty{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseReport([]byte(tt.raw))
			require.Len(t, r.Sections, 1)
			assert.Equal(t, tt.want, r.Sections[0].Data)
		})
	}
}

func TestReport_FindSection(t *testing.T) {
	r := ParseReport([]byte(`{"sections":[{"title":"가맹점 평균 매출액","data":[]},{"title":"매출 현황","data":[]}]}`))

	s, ok := r.FindSection("평균 매출")
	require.True(t, ok)
	assert.Equal(t, "가맹점 평균 매출액", s.Title)

	_, ok = r.FindSection("재무 상황")
	assert.False(t, ok)
}

func TestDecodeJSON(t *testing.T) {
	assert.Equal(t, map[string]any{}, DecodeJSON(nil))
	assert.Equal(t, map[string]any{}, DecodeJSON([]byte(`{broken`)))
	assert.Equal(t, map[string]any{}, DecodeJSON([]byte(`null`)))
	assert.Equal(t, map[string]any{"a": 1.0}, DecodeJSON([]byte(`{"a":1}`)))
}

func TestPairList_GetRepeatedLabels(t *testing.T) {
	section := func(data string) PairList {
		r := ParseReport([]byte(`{"sections":[{"title":"s","data":` + data + `}]}`))
		require.Len(t, r.Sections, 1)
		pairs, ok := r.Sections[0].Data.(PairList)
		require.True(t, ok)
		return pairs
	}

	tests := []struct {
		name   string
		data   string
		want   any
		wantOK bool
	}{
		{
			name:   "later zero overrides",
			data:   `[{"key":"join_fee","value":"500만원"},{"key":"join_fee","value":0}]`,
			want:   0.0,
			wantOK: true,
		},
		{
			name:   "false is a value",
			data:   `[{"key":"join_fee","value":"500만원"},{"key":"join_fee","value":false}]`,
			want:   false,
			wantOK: true,
		},
		{
			name:   "later blank string skipped",
			data:   `[{"key":"join_fee","value":"500만원"},{"key":"join_fee","value":"  "}]`,
			want:   "500만원",
			wantOK: true,
		},
		{
			name:   "later null skipped",
			data:   `[{"key":"join_fee","value":"500만원"},{"key":"join_fee","value":null}]`,
			want:   "500만원",
			wantOK: true,
		},
		{
			name:   "only blanks",
			data:   `[{"key":"join_fee","value":""},{"key":"join_fee","value":null}]`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := section(tt.data).Get("join_fee", "가맹비")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObject_GetKeepsZero(t *testing.T) {
	got, ok := Object{"average_sales": 0.0, "평균매출": "3억"}.Get("average_sales", "평균매출")
	require.True(t, ok)
	assert.Equal(t, 0.0, got)

	got, ok = Object{"average_sales": " ", "평균매출": "3억"}.Get("average_sales", "평균매출")
	require.True(t, ok)
	assert.Equal(t, "3억", got)
}

func TestFeeComponents_ExplicitZeroFee(t *testing.T) {
	r := ParseReport([]byte(`{"sections":[{"title":"가맹점사업자 부담금","data":[` +
		`{"key":"join_fee","value":"500만원"},{"key":"join_fee","value":0}]}]}`))

	costs := FeeComponents(r)
	assert.Zero(t, costs.FranchiseFee)
	assert.Zero(t, costs.TotalInvestment)
}
