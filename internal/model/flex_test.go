package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_Variants(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"Annual Report"`, "Annual Report"},
		{`2023`, "2023"},
		{`true`, "true"},
		{`null`, ""},
	}
	for _, tc := range cases {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(tc.in), &f), tc.in)
		assert.Equal(t, tc.want, f.String(), tc.in)
	}
}

func TestFlexStringList_ArrayAndScalar(t *testing.T) {
	var l FlexStringList
	require.NoError(t, json.Unmarshal([]byte(`["AI", "Cloud Computing", 5, ""]`), &l))
	assert.Equal(t, FlexStringList{"AI", "Cloud Computing", "5"}, l)

	var single FlexStringList
	require.NoError(t, json.Unmarshal([]byte(`"RPA"`), &single))
	assert.Equal(t, FlexStringList{"RPA"}, single)

	var nul FlexStringList
	require.NoError(t, json.Unmarshal([]byte(`null`), &nul))
	assert.Nil(t, nul)
}

func TestFlexFloat_Number(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`42.5`), &f))
	assert.True(t, f.Valid)
	assert.Equal(t, 42.5, f.Val)
}

func TestFlexFloat_NumericString(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`"36"`), &f))
	assert.True(t, f.Valid)
	assert.Equal(t, 36.0, f.Val)
}

func TestFlexFloat_FormulaString(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`"42.5 ADJUSTED to 51.5 based on efficiency gains"`), &f))
	assert.True(t, f.Valid)
	assert.Equal(t, 42.5, f.Val)
}

func TestFlexFloat_NonNumericString(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`"not computed"`), &f))
	assert.False(t, f.Valid)
	assert.Equal(t, "not computed", f.Raw)
}

func TestFlexFloat_NullAndObject(t *testing.T) {
	var f FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.False(t, f.Valid)

	require.NoError(t, json.Unmarshal([]byte(`{"x":1}`), &f))
	assert.False(t, f.Valid)
}

func TestLeadingNumber(t *testing.T) {
	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"51.5", 51.5, true},
		{"  38.0 - Limited workforce upskilling", 38.0, true},
		{"-12.25 net", -12.25, true},
		{"40.", 40, true},
		{"not computed", 0, false},
		{"", 0, false},
		{"RM 5 million", 0, false},
	}
	for _, tc := range cases {
		v, ok := LeadingNumber(tc.in)
		assert.Equal(t, tc.valid, ok, tc.in)
		if ok {
			assert.Equal(t, tc.want, v, tc.in)
		}
	}
}

func TestFlexBool_Variants(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"Yes"`, true},
		{`"no"`, false},
		{`1`, true},
		{`0`, false},
		{`null`, false},
	}
	for _, tc := range cases {
		var f FlexBool
		require.NoError(t, json.Unmarshal([]byte(tc.in), &f), tc.in)
		assert.Equal(t, tc.want, bool(f), tc.in)
	}
}
