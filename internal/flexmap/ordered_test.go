package flexmap

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func count(t *testing.T, o CountByType, key string) string {
	t.Helper()
	v, ok := o.Get(key)
	require.True(t, ok, key)
	return v.String()
}

func TestCountByTypePreservesMemberOrder(t *testing.T) {
	var counts CountByType
	require.NoError(t, json.Unmarshal([]byte(`{"male": 4, "female": 2}`), &counts))
	require.Equal(t, []string{"male", "female"}, counts.Keys())
	require.Equal(t, "4", count(t, counts, "male"))
	require.Equal(t, "2", count(t, counts, "female"))

	var permuted CountByType
	require.NoError(t, json.Unmarshal([]byte(`{"female": 2, "male": 4}`), &permuted))
	require.Equal(t, []string{"female", "male"}, permuted.Keys())
}

func TestUserIDsByTypePreservesOrder(t *testing.T) {
	var ids UserIDsByType
	raw := `{"yes": [11, 12], "no": [], "maybe": [7]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &ids))
	require.Equal(t, []string{"yes", "no", "maybe"}, ids.Keys())

	yes, ok := ids.Get("yes")
	require.True(t, ok)
	require.Equal(t, []int64{11, 12}, yes)
	no, ok := ids.Get("no")
	require.True(t, ok)
	require.Empty(t, no)
	_, ok = ids.Get("available")
	require.False(t, ok)
}

func TestOrderedNullAndEmpty(t *testing.T) {
	var counts CountByType
	require.NoError(t, json.Unmarshal([]byte(`null`), &counts))
	require.Equal(t, 0, counts.Len())

	require.NoError(t, json.Unmarshal([]byte(`{}`), &counts))
	require.Equal(t, 0, counts.Len())
}

func TestOrderedRejectsWrongShapes(t *testing.T) {
	cases := map[string]string{
		"array":           `[1, 2]`,
		"string":          `"male"`,
		"non-numeric":     `{"male": "four"}`,
		"boolean count":   `{"male": true}`,
		"ids not array":   `{"yes": 3}`,
		"truncated input": `{"male": 4`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if name == "ids not array" {
				var ids UserIDsByType
				require.Error(t, ids.UnmarshalJSON([]byte(raw)))
				return
			}
			var counts CountByType
			require.Error(t, counts.UnmarshalJSON([]byte(raw)))
		})
	}
}

func TestOrderedDuplicateKeyKeepsFirstPosition(t *testing.T) {
	var counts CountByType
	require.NoError(t, counts.UnmarshalJSON([]byte(`{"a": 1, "b": 2, "a": 3}`)))
	require.Equal(t, []string{"a", "b"}, counts.Keys())
	require.Equal(t, "3", count(t, counts, "a"))
}

func TestCountByTypeAcceptsDecimalsAndNumericStrings(t *testing.T) {
	var counts CountByType
	require.NoError(t, json.Unmarshal([]byte(`{"yes": "4", "maybe": 1.5, "no": 0}`), &counts))
	require.Equal(t, []string{"yes", "maybe", "no"}, counts.Keys())
	require.Equal(t, "4", count(t, counts, "yes"))
	require.Equal(t, "1.5", count(t, counts, "maybe"))
	require.Equal(t, "0", count(t, counts, "no"))
}

func TestOrderedOnlyAppliesToDeclaredFields(t *testing.T) {
	type summary struct {
		Counts CountByType       `json:"counts"`
		Totals map[string]int64 `json:"totals"`
	}
	var s summary
	raw := `{"counts": {"z": 1, "a": 2}, "totals": {"z": 1, "a": 2}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.Equal(t, []string{"z", "a"}, s.Counts.Keys())
	require.Equal(t, map[string]int64{"z": 1, "a": 2}, s.Totals)
}

func TestOrderedMarshalKeepsOrder(t *testing.T) {
	counts := Of(
		Pair[decimal.Decimal]{Key: "yes", Value: decimal.NewFromInt(3)},
		Pair[decimal.Decimal]{Key: "no", Value: decimal.RequireFromString("1.5")},
	)
	out, err := json.Marshal(counts)
	require.NoError(t, err)
	require.Equal(t, `{"yes":3,"no":1.5}`, string(out))

	var back CountByType
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, counts.Keys(), back.Keys())
	require.Equal(t, "1.5", count(t, back, "no"))

	ids := Of(Pair[[]int64]{Key: "yes", Value: []int64{1, 2}})
	out, err = json.Marshal(ids)
	require.NoError(t, err)
	require.Equal(t, `{"yes":[1,2]}`, string(out))
}

func TestPairsReturnsCopy(t *testing.T) {
	ids := Of(Pair[int64]{Key: "yes", Value: 3})
	pairs := ids.Pairs()
	pairs[0].Value = 99
	v, _ := ids.Get("yes")
	require.Equal(t, int64(3), v)
}
