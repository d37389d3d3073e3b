package video

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWithCover = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 900,
      "disposition": { "default": 0, "attached_pic": 1 }
    },
    {
      "index": 1,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "disposition": { "default": 1, "attached_pic": 0 }
    }
  ]
}`

func TestParseJSONSkipsAttachedPic(t *testing.T) {
	d, err := ParseJSON([]byte(sampleWithCover))
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 1920, Height: 1080}, d)
}

func TestParseJSONNoVideo(t *testing.T) {
	_, err := ParseJSON([]byte(`{"streams":[{"codec_type":"audio"}]}`))
	assert.ErrorIs(t, err, ErrNoVideoStream)

	_, err = ParseJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestIsWide(t *testing.T) {
	tests := []struct {
		name string
		d    Dimensions
		want bool
	}{
		{"exact 16:9", Dimensions{1920, 1080}, true},
		{"720p", Dimensions{1280, 720}, true},
		{"4:3", Dimensions{1440, 1080}, false},
		{"within tolerance", Dimensions{1850, 1080}, true},
		{"ultrawide", Dimensions{2560, 1080}, false},
		{"portrait 9:16", Dimensions{1080, 1920}, false},
		{"zero height", Dimensions{1920, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWide(tt.d))
		})
	}
}

type stubProber struct {
	d   Dimensions
	err error
}

func (s stubProber) Available() bool { return true }
func (s stubProber) Probe(context.Context, string) (Dimensions, error) {
	return s.d, s.err
}

func TestAccept(t *testing.T) {
	ctx := context.Background()

	ok, _, err := Accept(ctx, stubProber{d: Dimensions{1920, 1080}}, "a.mp4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, d, err := Accept(ctx, stubProber{d: Dimensions{640, 480}}, "b.mp4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.InDelta(t, 4.0/3.0, d.Ratio(), 0.0001)

	ok, _, err = Accept(ctx, stubProber{err: errors.New("boom")}, "c.mp4")
	assert.Error(t, err)
	assert.False(t, ok)

	// ffprobe yoksa kontrol yapılmadan kabul edilir
	ok, _, err = Accept(ctx, AcceptAll{}, "d.mov")
	require.NoError(t, err)
	assert.True(t, ok)
}
