package mediainfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"subforce/internal/logging"
	"subforce/internal/services"
)

// TrackInfo describes one subtitle track as reported by the tooling.
type TrackInfo struct {
	// Number is the container track number reported by mediainfo; it is
	// the stable per-file identifier used throughout a run.
	Number int
	// EditID is the mkvmerge track ID mkvpropedit needs to address the
	// track, or -1 when mkvinfo reported no mapping for it.
	EditID int
	// Format is the subtitle codec (PGS, VobSub, UTF-8, ...).
	Format string
	// Language is the raw language tag from the container, lowercased.
	Language string
	// ElementCount is the number of subtitle events in the track.
	ElementCount int
	// Forced reports the flag's current value; absent metadata reads as
	// false.
	Forced bool
	// Default reports the default-track flag; it never feeds
	// classification, only the per-track extraction log line.
	Default bool
}

// runner executes an external command and returns its standard output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

// Client runs the extraction tools against individual files.
type Client struct {
	mediainfoBin string
	mkvinfoBin   string
	timeout      time.Duration
	logger       *slog.Logger
	run          runner
}

// NewClient constructs an extraction client. Empty binary names fall back
// to the tools' conventional names; a zero timeout disables the bounded
// wait.
func NewClient(mediainfoBin, mkvinfoBin string, timeout time.Duration, logger *slog.Logger) *Client {
	if strings.TrimSpace(mediainfoBin) == "" {
		mediainfoBin = "mediainfo"
	}
	if strings.TrimSpace(mkvinfoBin) == "" {
		mkvinfoBin = "mkvinfo"
	}
	return &Client{
		mediainfoBin: mediainfoBin,
		mkvinfoBin:   mkvinfoBin,
		timeout:      timeout,
		logger:       logging.NewComponentLogger(logger, "mediainfo"),
		run:          defaultRunner,
	}
}

// WithRunner injects a custom command runner for tests.
func (c *Client) WithRunner(r runner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// ExtractTracks inspects a file and returns its subtitle tracks in
// container order. Tool failures surface as a single error for the whole
// file.
func (c *Client) ExtractTracks(ctx context.Context, path string) ([]TrackInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, "mediainfo", "extract", "empty path", nil)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	infoOut, err := c.run(ctx, c.mediainfoBin, "--Full", "--Output=JSON", path)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "mediainfo", "inspect", path, err)
		}
		return nil, services.Wrap(services.ErrExtraction, "mediainfo", "inspect", path, err)
	}

	tracks, err := parseMediainfoOutput(infoOut)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "mediainfo", "parse", path, err)
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	mkvOut, err := c.run(ctx, c.mkvinfoBin, path)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "mkvinfo", "inspect", path, err)
		}
		return nil, services.Wrap(services.ErrExtraction, "mkvinfo", "inspect", path, err)
	}

	mapping := parseTrackMapping(string(mkvOut))
	for i := range tracks {
		editID, ok := mapping[tracks[i].Number]
		if !ok {
			editID = -1
			c.logger.Warn("no mkvpropedit mapping for subtitle track",
				logging.String("path", path),
				logging.Int("track", tracks[i].Number),
			)
		}
		tracks[i].EditID = editID
		c.logger.Debug("subtitle track extracted",
			logging.String("path", path),
			logging.Int("track", tracks[i].Number),
			logging.String("language", tracks[i].Language),
			logging.Int("elements", tracks[i].ElementCount),
			logging.Bool("forced", tracks[i].Forced),
			logging.Bool("default", tracks[i].Default),
		)
	}
	return tracks, nil
}

// mediainfo JSON: {"media": {"track": [{...}]}} with every value encoded
// as a string. Tracks are decoded as loose maps because the element count
// key has shifted across mediainfo releases.
type mediainfoReport struct {
	Media struct {
		Track []map[string]any `json:"track"`
	} `json:"media"`
}

func parseMediainfoOutput(output []byte) ([]TrackInfo, error) {
	var report mediainfoReport
	if err := json.Unmarshal(output, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	var tracks []TrackInfo
	for _, raw := range report.Media.Track {
		if !strings.EqualFold(stringField(raw, "@type"), "Text") {
			continue
		}
		number, err := strconv.Atoi(stringField(raw, "ID"))
		if err != nil {
			return nil, fmt.Errorf("subtitle track without numeric ID: %q", stringField(raw, "ID"))
		}
		count, err := elementCount(raw)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", number, err)
		}
		tracks = append(tracks, TrackInfo{
			Number:       number,
			EditID:       -1,
			Format:       stringField(raw, "Format"),
			Language:     strings.ToLower(stringField(raw, "Language")),
			ElementCount: count,
			Forced:       strings.EqualFold(stringField(raw, "Forced"), "yes"),
			Default:      strings.EqualFold(stringField(raw, "Default"), "yes"),
		})
	}
	return tracks, nil
}

// elementCount reads the event count under the keys successive mediainfo
// versions have used for it. A text track that reports no count at all is
// treated as zero elements.
func elementCount(track map[string]any) (int, error) {
	for _, key := range []string{"Count_of_elements", "Count of elements", "ElementCount"} {
		value := stringField(track, key)
		if value == "" {
			continue
		}
		count, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("element count %q: %w", value, err)
		}
		return count, nil
	}
	return 0, nil
}

func stringField(track map[string]any, key string) string {
	value, ok := track[key]
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
