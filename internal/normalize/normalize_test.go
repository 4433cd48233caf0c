package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"empty slice", []string{}, ""},
		{"plain csv", "go,sql", "go,sql"},
		{"csv with spaces", " go , sql ", "go,sql"},
		{"bracket wrapped", "[a, b]", "a,b"},
		{"double encoded", `["go","sql"]`, "go,sql"},
		{"list with blanks", []string{"a", " b ", "", "c"}, "a,b,c"},
		{"list keeps order and dupes", []string{"b", "a", "b"}, "b,a,b"},
		{"bracket fragments per element", []string{"[go", "sql]"}, "go,sql"},
		{"any slice", []any{"x", 7}, "x,7"},
		{"only blanks", "  ,  , ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	require.Equal(t, []string{"go", "sql"}, Split(Normalize([]string{" go", "sql "})))
	require.Empty(t, Split(""))
}

func TestFieldListUnmarshal(t *testing.T) {
	var f FieldList
	require.NoError(t, json.Unmarshal([]byte(`["go"," sql ",""]`), &f))
	require.Equal(t, "go,sql", f.String())

	require.NoError(t, json.Unmarshal([]byte(`"[a, b]"`), &f))
	require.Equal(t, "a,b", f.String())

	require.NoError(t, json.Unmarshal([]byte(`""`), &f))
	require.True(t, f.Empty())

	require.Error(t, json.Unmarshal([]byte(`{"x":1}`), &f))
}
