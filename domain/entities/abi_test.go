package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWidth(t *testing.T) {
	tests := []struct {
		in   string
		want Width
	}{
		{"32", Width32},
		{"i32", Width32},
		{"64", Width64},
		{"i64", Width64},
	}
	for _, tt := range tests {
		got, err := ParseWidth(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseWidth("16")
	assert.Error(t, err)
}

func TestWidth_Wrap(t *testing.T) {
	assert.Equal(t, int64(math.MinInt32), Width32.Wrap(int64(math.MaxInt32)+1))
	assert.Equal(t, int64(-2), Width32.Wrap(int64(math.MaxInt32)*2))
	assert.Equal(t, int64(math.MaxInt32)+1, Width64.Wrap(int64(math.MaxInt32)+1))
}

func TestWidth_ValueType(t *testing.T) {
	assert.Equal(t, "i32", Width32.ValueType())
	assert.Equal(t, "i64", Width64.ValueType())
	assert.True(t, Width32.Valid())
	assert.False(t, Width(8).Valid())
}

func TestExportInfo_String(t *testing.T) {
	info := ExportInfo{Name: "sum", Params: []string{"i32", "i32"}, Results: []string{"i32"}}
	assert.Equal(t, "sum(i32, i32) -> (i32)", info.String())
}
