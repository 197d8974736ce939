package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedArgs(t *testing.T) {
	tracks := []SubtitleTrack{
		{Language: "es", Path: "/out/movie - ES.srt"},
		{Language: "en", Path: "/out/movie - EN.srt"},
	}

	args := embedArgs("/in/movie.mkv", tracks, "/out/movie.mp4")
	joined := strings.Join(args, " ")

	require.Contains(t, joined, "-i /in/movie.mkv")
	require.Contains(t, joined, "-i /out/movie - ES.srt")
	require.Contains(t, joined, "-i /out/movie - EN.srt")
	require.Contains(t, joined, "-c copy")
	require.Contains(t, joined, "-c:s mov_text")
	require.Contains(t, joined, "-metadata:s:s:0 language=es")
	require.Contains(t, joined, "-metadata:s:s:0 title=Spanish")
	require.Contains(t, joined, "-metadata:s:s:1 language=en")
	require.Contains(t, joined, "-metadata:s:s:1 title=English")
	require.Contains(t, joined, "-disposition:s:1 default")
	require.Equal(t, "/out/movie.mp4", args[len(args)-1])
}

func TestEmbed_RequiresTwoTracks(t *testing.T) {
	muxer := NewFFmpeg()
	err := muxer.Embed(context.Background(), "/in/movie.mkv",
		[]SubtitleTrack{{Language: "es", Path: "a.srt"}}, "/out/movie.mp4")
	require.ErrorContains(t, err, "exactly 2 subtitle tracks")
}
