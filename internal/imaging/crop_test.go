package imaging

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

func TestRegion_Rect(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name    string
		region  Region
		wantErr bool
	}{
		{"full image", Region{0, 0, 100, 80}, false},
		{"interior", Region{10, 10, 20, 30}, false},
		{"past right edge", Region{50, 0, 101, 10}, true},
		{"negative origin", Region{-1, 0, 10, 10}, true},
		{"empty width", Region{10, 10, 10, 20}, true},
		{"inverted", Region{20, 20, 10, 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rect, err := tt.region.Rect(bounds)
			if tt.wantErr {
				require.True(t, errors.Is(err, mutualinfo.ErrInvalidParameter), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.region.Width(), rect.Dx())
			require.Equal(t, tt.region.Height(), rect.Dy())
		})
	}
}

func TestNamedRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name string
		want Region
	}{
		{"top-left", Region{0, 0, 50, 40}},
		{"top-right", Region{50, 0, 100, 40}},
		{"bottom-left", Region{0, 40, 50, 80}},
		{"bottom-right", Region{50, 40, 100, 80}},
		{"top-half", Region{0, 0, 100, 40}},
		{"bottom-half", Region{0, 40, 100, 80}},
		{"left-half", Region{0, 0, 50, 80}},
		{"right-half", Region{50, 0, 100, 80}},
		{"center", Region{25, 20, 75, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(bounds, tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, *got)
		})
	}

	_, err := NamedRegion(bounds, "middle")
	require.Error(t, err)
}

func TestNamedRegion_OffsetBounds(t *testing.T) {
	got, err := NamedRegion(image.Rect(10, 20, 30, 40), "bottom-right")
	require.NoError(t, err)
	require.Equal(t, Region{20, 30, 30, 40}, *got)
}

func TestNamedRegion_TooSmall(t *testing.T) {
	r := require.New(t)
	bounds := image.Rect(0, 0, 1, 4)

	got, err := NamedRegion(bounds, "top-half")
	r.NoError(err)
	r.Equal(Region{0, 0, 1, 2}, *got)

	for _, name := range []string{"left-half", "top-left", "bottom-left"} {
		_, err := NamedRegion(bounds, name)
		r.True(errors.Is(err, mutualinfo.ErrInvalidParameter), "%s: got %v", name, err)
		r.Contains(err.Error(), "empty for a 1x4 image")
	}
}
