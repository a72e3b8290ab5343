package xmeasure

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupLocalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Localization
	}{
		{"english", English},
		{"EN", English},
		{" Turkish ", Turkish},
		{"tr", Turkish},
		{"zh_CN", ChineseSimplified},
		{"zh-cn", ChineseSimplified},
		{"Chinese", ChineseSimplified},
		{"ja", Japanese},
		{"ru", Russian},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := LookupLocalization(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := LookupLocalization("klingon")
	assert.False(t, ok)
	_, ok = LookupLocalization("")
	assert.False(t, ok)
}

func TestLocalizationNames(t *testing.T) {
	t.Parallel()

	names := LocalizationNames()
	assert.Len(t, names, 10)
	assert.True(t, slices.IsSorted(names))
	for _, n := range names {
		_, ok := LookupLocalization(n)
		assert.True(t, ok, n)
	}
}

func TestLocalization_TablesComplete(t *testing.T) {
	t.Parallel()

	for _, n := range LocalizationNames() {
		loc, _ := LookupLocalization(n)
		assert.NotEmpty(t, loc.Duration, n)
		assert.NotEmpty(t, loc.DurationHigh, n)
		assert.NotEmpty(t, loc.TotalDuration, n)
		assert.NotEmpty(t, loc.Prefix, n)
		assert.NotEmpty(t, loc.Memory, n)
		assert.NotEmpty(t, loc.GarbageCollection, n)
		assert.NotEmpty(t, loc.HighMemory, n)
		assert.NotEmpty(t, loc.GCPressure, n)
		assert.NotEmpty(t, loc.Threshold, n)
		assert.NotEmpty(t, loc.Milliseconds, n)
	}
	assert.Equal(t, "METRIKA", English.Prefix)
	assert.Equal(t, "duration high", English.DurationHigh)
}
