package mediainfo

import (
	"strconv"
	"strings"
)

// parseTrackMapping reads mkvinfo's track listing and maps container
// track numbers to the track IDs mkvpropedit addresses. Only subtitle
// tracks enter the map.
//
// The relevant lines look like:
//
//	| + Track
//	|  + Track number: 4 (track ID for mkvmerge & mkvextract: 3)
//	|  + Track type: subtitles
func parseTrackMapping(output string) map[int]int {
	mapping := make(map[int]int)
	var number, editID int
	haveNumbers := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if strings.Contains(line, "+ Track") && !strings.Contains(line, ":") {
			haveNumbers = false
			continue
		}

		if rest, ok := cutAfter(line, "Track number:"); ok {
			n, id, ok := parseNumberLine(rest)
			if !ok {
				haveNumbers = false
				continue
			}
			number, editID = n, id
			haveNumbers = true
			continue
		}

		if rest, ok := cutAfter(line, "Track type:"); ok {
			if haveNumbers && strings.Contains(strings.ToLower(rest), "subtitle") {
				mapping[number] = editID
			}
			haveNumbers = false
		}
	}
	return mapping
}

// parseNumberLine extracts both numbers from
// "4 (track ID for mkvmerge & mkvextract: 3)".
func parseNumberLine(rest string) (number, editID int, ok bool) {
	numPart, parenPart, found := strings.Cut(rest, "(")
	if !found {
		return 0, 0, false
	}
	number, err := strconv.Atoi(strings.TrimSpace(numPart))
	if err != nil {
		return 0, 0, false
	}
	_, idPart, found := strings.Cut(parenPart, ":")
	if !found {
		return 0, 0, false
	}
	idPart = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(idPart), ")"))
	editID, err = strconv.Atoi(idPart)
	if err != nil {
		return 0, 0, false
	}
	return number, editID, true
}

func cutAfter(line, marker string) (string, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[idx+len(marker):]), true
}
