package classify

import "strings"

// ClassifyByGenres assigns a track to a bucket using its artists' genre tags.
// Buckets are checked in rule-table priority order and the first whose genre
// set intersects the tags wins; the order is what disambiguates tags that
// appear under several buckets. With no overlap at all the catch-all Other
// is returned.
func ClassifyByGenres(genres []string) string {
	if len(genres) == 0 {
		return Other
	}

	tags := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		tags[strings.ToLower(g)] = struct{}{}
	}

	for _, b := range Buckets {
		for _, g := range b.Genres {
			if _, ok := tags[g]; ok {
				return b.Name
			}
		}
	}
	return Other
}
