package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "opencv", TypeOpenCV.String())
	assert.Equal(t, "pangolin", TypePangolin.String())
	assert.Equal(t, "remote", TypeRemote.String())
	assert.Equal(t, "Type(42)", Type(42).String())
	assert.Equal(t, "Type(-1)", Type(-1).String())
}

func TestTypeSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, TypeOpenCV.Supported())
	assert.True(t, TypeRemote.Supported())
	assert.False(t, TypePangolin.Supported())
	assert.False(t, Type(42).Supported())
}

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Type
	}{
		{"opencv", TypeOpenCV},
		{"OpenCV", TypeOpenCV},
		{" remote ", TypeRemote},
		{"pangolin", TypePangolin},
		{"0", TypeOpenCV},
		{"1", TypePangolin},
		{"42", Type(42)},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseType("vulkan")
	assert.Error(t, err)
}

func TestKnownTypesIsACopy(t *testing.T) {
	t.Parallel()

	types := KnownTypes()
	require.Len(t, types, 3)
	types[0].Supported = false
	assert.True(t, TypeOpenCV.Supported())
}

func TestSupportTable(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"0: OpenCV 3D viz, 1: Pangolin (not supported yet), 2: Remote WebRTC stream",
		supportTable())
}
