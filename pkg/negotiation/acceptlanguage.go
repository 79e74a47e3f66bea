package negotiation

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// LanguageRange is one entry of an Accept-Language header.
type LanguageRange struct {
	Tag      language.Tag // language.Und for the wildcard
	Wildcard bool         // the "*" range
	Quality  float64      // in [0, 1]; 0 excludes the range
}

// matches reports whether the range names the supported tag exactly
// (language, script and region).
func (r LanguageRange) matches(tag language.Tag) bool {
	return !r.Wildcard && r.Tag.String() == tag.String()
}

// sameLanguage reports whether the range and the tag share a base language.
func (r LanguageRange) sameLanguage(tag language.Tag) bool {
	if r.Wildcard {
		return false
	}
	a, _ := r.Tag.Base()
	b, _ := tag.Base()
	return a == b
}

// languageOnly reports whether the range names a bare language, with no
// explicit script or region.
func (r LanguageRange) languageOnly() bool {
	_, sc := r.Tag.Script()
	_, rc := r.Tag.Region()
	return sc != language.Exact && rc != language.Exact
}

// AcceptLanguage is a parsed Accept-Language header. Ranges are ordered by
// descending quality, ties keeping their header order.
type AcceptLanguage struct {
	ranges []LanguageRange
}

// ParseAcceptLanguage parses the raw header value. It never fails:
//   - a missing q parameter means 1.0;
//   - a q value that is not a number within [0, 1] is taken as 1.0;
//   - ranges that are not valid language tags are skipped.
//
// Underscores are accepted as subtag separators ("en_US").
func ParseAcceptLanguage(header string) AcceptLanguage {
	var ranges []LanguageRange
	for _, entry := range strings.Split(header, ",") {
		parts := strings.Split(entry, ";")
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}

		r := LanguageRange{Quality: 1.0}
		if name == "*" {
			r.Wildcard = true
		} else {
			tag, err := ParseTag(name)
			if err != nil {
				continue
			}
			r.Tag = tag
		}

		for _, param := range parts[1:] {
			k, v, found := strings.Cut(strings.TrimSpace(param), "=")
			if found && strings.EqualFold(strings.TrimSpace(k), "q") {
				r.Quality = parseQuality(v)
			}
		}
		ranges = append(ranges, r)
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Quality > ranges[j].Quality
	})
	return AcceptLanguage{ranges: ranges}
}

func parseQuality(v string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(q) || q < 0 || q > 1 {
		return 1.0
	}
	return q
}

// ParseTag parses a language tag, accepting underscores as separators.
func ParseTag(s string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
}

// ParseTags parses each of the given language tags, skipping invalid ones.
func ParseTags(tags ...string) []language.Tag {
	out := make([]language.Tag, 0, len(tags))
	for _, s := range tags {
		if tag, err := ParseTag(s); err == nil {
			out = append(out, tag)
		}
	}
	return out
}

// Ranges returns a copy of the parsed ranges in preference order.
func (a AcceptLanguage) Ranges() []LanguageRange {
	return append([]LanguageRange{}, a.ranges...)
}

// Locales returns the acceptable (q > 0) concrete locales in preference
// order. The wildcard is not listed.
func (a AcceptLanguage) Locales() []language.Tag {
	locales := []language.Tag{}
	for _, r := range a.ranges {
		if r.Quality > 0 && !r.Wildcard {
			locales = append(locales, r.Tag)
		}
	}
	return locales
}

// SelectBest picks the supported locale the client prefers. Supported
// locales are given in server preference order, which breaks ties.
//
// Exact matches (language, script and region) at q > 0 win over any
// language-only match; language-only matches win over the wildcard. A
// supported locale the client marked q=0, exactly or through a bare
// language range, is never selected. It returns false when nothing matches;
// choosing a default is up to the caller.
func (a AcceptLanguage) SelectBest(supported []language.Tag) (language.Tag, bool) {
	candidates := make([]language.Tag, 0, len(supported))
	for _, tag := range supported {
		if !a.excludes(tag) {
			candidates = append(candidates, tag)
		}
	}

	for _, r := range a.ranges {
		if r.Quality == 0 {
			continue
		}
		for _, tag := range candidates {
			if r.matches(tag) {
				return tag, true
			}
		}
	}

	for _, r := range a.ranges {
		if r.Quality == 0 {
			continue
		}
		for _, tag := range candidates {
			if r.sameLanguage(tag) {
				return tag, true
			}
		}
	}

	for _, r := range a.ranges {
		if r.Wildcard && r.Quality > 0 && len(candidates) > 0 {
			return candidates[0], true
		}
	}
	return language.Und, false
}

func (a AcceptLanguage) excludes(tag language.Tag) bool {
	for _, r := range a.ranges {
		if r.Quality != 0 || r.Wildcard {
			continue
		}
		if r.matches(tag) || (r.languageOnly() && r.sameLanguage(tag)) {
			return true
		}
	}
	return false
}
