package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

// Undetermined is the group key for tracks without a recognizable
// language tag. Matches the ISO 639-2 code mediainfo itself reports for
// untagged streams.
const Undetermined = "und"

type entry struct {
	code2   string   // ISO 639-1
	code3   string   // ISO 639-2 primary
	alt3    string   // ISO 639-2 bibliographic alternate (e.g. "fre")
	display string
	words   []string
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(tag string) *entry {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	// IETF-style tags carry region subtags (pt-BR, zh-Hans); the primary
	// subtag is what groups tracks.
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	if e, ok := byCode2[tag]; ok {
		return e
	}
	if e, ok := byCode3[tag]; ok {
		return e
	}
	if e, ok := byWord[tag]; ok {
		return e
	}
	return nil
}

// GroupKey normalizes a raw language tag to the canonical ISO 639-2 key
// used to partition subtitle tracks. Unrecognized three-letter codes pass
// through unchanged so rare languages still group among themselves;
// everything else falls into Undetermined.
func GroupKey(tag string) string {
	if e := lookup(tag); e != nil {
		return e.code3
	}
	cleaned := strings.ToLower(strings.TrimSpace(tag))
	if idx := strings.IndexAny(cleaned, "-_"); idx > 0 {
		cleaned = cleaned[:idx]
	}
	if len(cleaned) == 3 && isAlpha(cleaned) {
		return cleaned
	}
	return Undetermined
}

// DisplayName returns a human-readable name for a language tag. Known
// tags use the curated name; unknown non-empty tags are title-cased.
func DisplayName(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return "Unknown"
	}
	if e := lookup(tag); e != nil {
		return e.display
	}
	return cases.Title(xlang.Und).String(strings.TrimSpace(tag))
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
