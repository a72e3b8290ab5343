package xjson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

func TestLine(t *testing.T) {
	t.Parallel()

	data, err := Line(sample{Name: "a&b", Link: "<x>"})
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"a&b\",\"link\":\"<x>\"}\n", string(data))

	_, err = Line(math.NaN())
	assert.ErrorIs(t, err, ErrMarshal)
}

func TestPrettyE(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{"struct", sample{Name: "n", Link: "l"}, "{\n  \"name\": \"n\",\n  \"link\": \"l\"\n}", false},
		{"nil", nil, "null", false},
		{"channel", make(chan int), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PrettyE(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMarshal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPretty_ErrorMarker(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Pretty(func() {}), "<marshal error:")
	assert.Equal(t, "[\n  1\n]", Pretty([]int{1}))
}
