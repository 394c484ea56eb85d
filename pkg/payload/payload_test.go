package payload

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) Value {
	t.Helper()
	v, err := Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func mustFormat(t *testing.T, v Value) string {
	t.Helper()
	s, err := Format(v)
	require.NoError(t, err)
	return s
}

func TestDecode_PreservesKeyOrder(t *testing.T) {
	v := mustDecode(t, `{"zeta": 1, "alpha": {"y": 2, "b": 3}, "mid": [1, 2.50]}`)

	obj, ok := v.(*Object)
	require.True(t, ok)

	var keys []string
	for k := range obj.Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	mid, _ := obj.Get("mid")
	assert.Equal(t, []any{json.Number("1"), json.Number("2.50")}, mid)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"truncated object", `{"a": 1`},
		{"trailing value", `{"a": 1} {"b": 2}`},
		{"bare word", `hello`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			assert.Error(t, err)
		})
	}

	_, err := Decode(nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestFormat_Layout(t *testing.T) {
	v := mustDecode(t, `{"name":"Brewers <MIL>","runs":[1,0,3],"meta":{},"list":[],"ok":true,"none":null}`)

	want := `{
  "name": "Brewers <MIL>",
  "runs": [
    1,
    0,
    3
  ],
  "meta": {},
  "list": [],
  "ok": true,
  "none": null
}`
	assert.Equal(t, want, mustFormat(t, v))
}

func TestFormat_TopLevelArrayOfObjects(t *testing.T) {
	v := mustDecode(t, `[{"b":1,"a":2}]`)
	want := `[
  {
    "b": 1,
    "a": 2
  }
]`
	assert.Equal(t, want, mustFormat(t, v))
}

func TestFormat_GoValues(t *testing.T) {
	type row struct {
		Team string `json:"team"`
		Runs int    `json:"runs"`
	}
	got := mustFormat(t, []row{{Team: "Cubs", Runs: 4}})
	want := `[
  {
    "team": "Cubs",
    "runs": 4
  }
]`
	assert.Equal(t, want, got)
}

func TestFormat_StringEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html kept", `"<b>&</b>"`, `"<b>&</b>"`},
		{"line separators kept", `"a\u2028b\u2029c"`, "\"a\u2028b\u2029c\""},
		{"quotes and backslash", `"say \"hi\" \\ bye"`, `"say \"hi\" \\ bye"`},
		{"short escapes", `"\n\r\t\b\f"`, `"\n\r\t\b\f"`},
		{"other controls", `"\u0001\u001f"`, `"\u0001\u001f"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustFormat(t, mustDecode(t, tt.in)))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	v := mustDecode(t, `{"x":[1,{"q":"r","p":[true,false]}],"y":5,"z":{"k":"v"}}`)

	first := mustFormat(t, v)
	second := mustFormat(t, v)
	assert.Equal(t, first, second)

	// formatting the formatted text again yields the same bytes
	again := mustFormat(t, mustDecode(t, first))
	assert.Equal(t, first, again)
}

func TestMerge_Scenario(t *testing.T) {
	a := mustDecode(t, `{"x":[1,2]}`)
	b := mustDecode(t, `{"x":[3],"y":5}`)

	merged, err := Merge(a, b)
	require.NoError(t, err)

	assert.Equal(t, `{"x":[1,2,3],"y":5}`, compact(t, merged))
}

func TestMerge_ConcatenationLaw(t *testing.T) {
	inputs := []string{
		`{"f":[1]}`,
		`{"f":[]}`,
		`{"f":[2,3],"g":1}`,
		`{"f":[{"inning":1}]}`,
	}
	var values []Value
	for _, s := range inputs {
		values = append(values, mustDecode(t, s))
	}

	merged, err := Merge(values...)
	require.NoError(t, err)

	f, ok := merged.Get("f")
	require.True(t, ok)
	assert.Equal(t, `[1,2,3,{"inning":1}]`, compact(t, f))
}

func TestMerge_OverrideLaw(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   string
	}{
		{
			name:   "scalar survives when absent later",
			inputs: []string{`{"f":7}`, `{"g":1}`, `{"h":[1]}`},
			want:   `{"f":7,"g":1,"h":[1]}`,
		},
		{
			name:   "object survives when absent later",
			inputs: []string{`{"game_summary":{"home_team":"Cubs"}}`, `{"inning_scores":[]}`},
			want:   `{"game_summary":{"home_team":"Cubs"},"inning_scores":[]}`,
		},
		{
			name:   "last present value wins",
			inputs: []string{`{"f":1}`, `{"f":{"a":1}}`, `{"f":"last"}`},
			want:   `{"f":"last"}`,
		},
		{
			name:   "array replaced by scalar",
			inputs: []string{`{"f":[1,2]}`, `{"f":3}`},
			want:   `{"f":3}`,
		},
		{
			name:   "scalar replaced by array",
			inputs: []string{`{"f":3}`, `{"f":[1]}`, `{"f":[2]}`},
			want:   `{"f":[1,2]}`,
		},
		{
			name:   "key order is first insertion",
			inputs: []string{`{"b":1,"a":[1]}`, `{"c":2,"a":[2],"b":3}`},
			want:   `{"b":3,"a":[1,2],"c":2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var values []Value
			for _, s := range tt.inputs {
				values = append(values, mustDecode(t, s))
			}
			merged, err := Merge(values...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, compact(t, merged))
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := mustDecode(t, `{"x":[1]}`)
	b := mustDecode(t, `{"x":[2]}`)

	_, err := Merge(a, b)
	require.NoError(t, err)

	assert.Equal(t, `{"x":[1]}`, compact(t, a))
	assert.Equal(t, `{"x":[2]}`, compact(t, b))
}

func TestMerge_RejectsNonObjects(t *testing.T) {
	_, err := Merge(mustDecode(t, `{"a":1}`), mustDecode(t, `[1,2]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotObject))
	assert.Contains(t, err.Error(), "payload 1 is array")
}

func TestMerge_Empty(t *testing.T) {
	merged, err := Merge()
	require.NoError(t, err)
	assert.Equal(t, "{}", mustFormat(t, merged))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "object", Kind(NewObject()))
	assert.Equal(t, "array", Kind([]any{}))
	assert.Equal(t, "number", Kind(json.Number("1")))
	assert.Equal(t, "string", Kind("s"))
	assert.Equal(t, "boolean", Kind(true))
	assert.Equal(t, "null", Kind(nil))
}

// compact formats v and strips the layout whitespace for short assertions.
func compact(t *testing.T, v Value) string {
	t.Helper()
	var out []byte
	inString := false
	escaped := false
	for _, c := range []byte(mustFormat(t, v)) {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ' ' || c == '\n'):
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
