package mediainfo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"subforce/internal/logging"
	"subforce/internal/services"
)

const sampleReport = `{
  "media": {
    "track": [
      {"@type": "General", "Format": "Matroska"},
      {"@type": "Video", "ID": "1", "Format": "HEVC"},
      {"@type": "Audio", "ID": "2", "Format": "DTS", "Language": "en"},
      {"@type": "Text", "ID": "3", "Format": "PGS", "Language": "en", "Forced": "No", "Default": "Yes", "Count_of_elements": "4200"},
      {"@type": "Text", "ID": "4", "Format": "PGS", "Language": "en", "Forced": "No", "Default": "No", "ElementCount": "120"},
      {"@type": "Text", "ID": "5", "Format": "UTF-8", "Language": "fr", "Forced": "Yes", "Default": "No", "Count_of_elements": "300"}
    ]
  }
}`

const sampleMkvinfo = `+ EBML head
|+ Segment information
|+ Tracks
| + Track
|  + Track number: 1 (track ID for mkvmerge & mkvextract: 0)
|  + Track type: video
| + Track
|  + Track number: 2 (track ID for mkvmerge & mkvextract: 1)
|  + Track type: audio
| + Track
|  + Track number: 3 (track ID for mkvmerge & mkvextract: 2)
|  + Track type: subtitles
| + Track
|  + Track number: 4 (track ID for mkvmerge & mkvextract: 3)
|  + Track type: subtitles
| + Track
|  + Track number: 5 (track ID for mkvmerge & mkvextract: 4)
|  + Track type: subtitles
`

func TestParseMediainfoOutput(t *testing.T) {
	tracks, err := parseMediainfoOutput([]byte(sampleReport))
	if err != nil {
		t.Fatalf("parseMediainfoOutput: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 subtitle tracks, got %d", len(tracks))
	}

	first := tracks[0]
	if first.Number != 3 || first.Language != "en" || first.ElementCount != 4200 || first.Forced || !first.Default {
		t.Errorf("unexpected first track: %+v", first)
	}
	// The legacy ElementCount key must still be honored.
	if tracks[1].ElementCount != 120 {
		t.Errorf("fallback element count = %d, want 120", tracks[1].ElementCount)
	}
	if !tracks[2].Forced {
		t.Errorf("expected track 5 to report forced")
	}
}

func TestParseMediainfoOutputMissingCount(t *testing.T) {
	report := `{"media": {"track": [{"@type": "Text", "ID": "3", "Language": "en"}]}}`
	tracks, err := parseMediainfoOutput([]byte(report))
	if err != nil {
		t.Fatalf("parseMediainfoOutput: %v", err)
	}
	if tracks[0].ElementCount != 0 {
		t.Errorf("missing count should read as zero, got %d", tracks[0].ElementCount)
	}
}

func TestParseTrackMapping(t *testing.T) {
	mapping := parseTrackMapping(sampleMkvinfo)
	want := map[int]int{3: 2, 4: 3, 5: 4}
	if len(mapping) != len(want) {
		t.Fatalf("mapping = %v, want %v", mapping, want)
	}
	for number, editID := range want {
		if mapping[number] != editID {
			t.Errorf("mapping[%d] = %d, want %d", number, mapping[number], editID)
		}
	}
}

func TestExtractTracksJoinsMapping(t *testing.T) {
	client := NewClient("", "", time.Minute, logging.NewNop())
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if strings.Contains(name, "mediainfo") {
			return []byte(sampleReport), nil
		}
		return []byte(sampleMkvinfo), nil
	})

	tracks, err := client.ExtractTracks(context.Background(), "/library/movie.mkv")
	if err != nil {
		t.Fatalf("ExtractTracks: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}
	for i, wantEdit := range []int{2, 3, 4} {
		if tracks[i].EditID != wantEdit {
			t.Errorf("track %d EditID = %d, want %d", tracks[i].Number, tracks[i].EditID, wantEdit)
		}
	}
}

func TestExtractTracksLogsTrackDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient("", "", time.Minute, logger)
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if strings.Contains(name, "mediainfo") {
			return []byte(sampleReport), nil
		}
		return []byte(sampleMkvinfo), nil
	})

	if _, err := client.ExtractTracks(context.Background(), "/library/movie.mkv"); err != nil {
		t.Fatalf("ExtractTracks: %v", err)
	}
	logged := buf.String()
	// Track 3 carries the default flag; the extraction log must show it.
	if !strings.Contains(logged, `"default":true`) {
		t.Errorf("default flag missing from extraction log: %s", logged)
	}
	if !strings.Contains(logged, `"default":false`) {
		t.Errorf("non-default tracks missing from extraction log: %s", logged)
	}
}

func TestExtractTracksToolFailureIsFileScoped(t *testing.T) {
	client := NewClient("", "", 0, logging.NewNop())
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})

	_, err := client.ExtractTracks(context.Background(), "/library/movie.mkv")
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction marker, got %v", err)
	}
}

func TestExtractTracksNoSubtitles(t *testing.T) {
	client := NewClient("", "", 0, logging.NewNop())
	client.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{"media": {"track": [{"@type": "Video", "ID": "1"}]}}`), nil
	})

	tracks, err := client.ExtractTracks(context.Background(), "/library/movie.mkv")
	if err != nil {
		t.Fatalf("ExtractTracks: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("expected no tracks, got %d", len(tracks))
	}
}
