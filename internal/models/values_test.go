package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalFilterValuesKeepsInsertionOrder(t *testing.T) {
	g := NewGlobalFilterValues()
	g.Set("b", StringValue("1"))
	g.Set("a", StringValue("2"))
	g.Set("b", StringValue("3"))

	assert.Equal(t, []string{"b", "a"}, g.Keys())
	v, ok := g.Get("b")
	require.True(t, ok)
	assert.Equal(t, "3", v.First())

	g.Delete("b")
	assert.Equal(t, []string{"a"}, g.Keys())
	assert.Equal(t, 1, g.Len())
}

func TestGlobalFilterValuesZeroValueIsUsable(t *testing.T) {
	var g GlobalFilterValues
	g.Set("x", ListValue("a"))
	assert.Equal(t, []string{"x"}, g.Keys())
}

func TestGlobalFilterValuesJSONPreservesDocumentOrder(t *testing.T) {
	var g GlobalFilterValues
	err := json.Unmarshal([]byte(`{"zeta":"1","alpha":["a","b"],"mid":""}`), &g)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, g.Keys())
	alpha, _ := g.Get("alpha")
	assert.True(t, alpha.IsList())
	assert.Equal(t, []string{"a", "b"}, alpha.Items())
	mid, _ := g.Get("mid")
	assert.True(t, mid.IsEmpty())

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":["a","b"],"mid":""}`, string(out))
}

func TestGlobalFilterValuesRejectsNonStrings(t *testing.T) {
	var g GlobalFilterValues
	assert.Error(t, json.Unmarshal([]byte(`{"n":42}`), &g))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &g))
}

func TestFilterValueAccessors(t *testing.T) {
	assert.True(t, ListValue().IsEmpty())
	assert.True(t, StringValue("").IsEmpty())
	assert.Equal(t, "", ListValue().First())
	assert.Equal(t, []string{"s"}, StringValue("s").Items())

	src := []string{"a"}
	v := ListValue(src...)
	src[0] = "changed"
	assert.Equal(t, "a", v.First())
}

func TestFilterModeDefault(t *testing.T) {
	assert.Equal(t, FilterModeAll, FilterMode("").OrDefault())
	assert.Equal(t, FilterModeAny, FilterModeAny.OrDefault())
}
