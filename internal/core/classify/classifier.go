package classify

// passes evaluates the condition against a feature value.
func (c Condition) passes(v float64) bool {
	switch c.Op {
	case opAtMost:
		return v <= c.Threshold
	case opAtLeast:
		return v >= c.Threshold
	case opInRange:
		return c.Low <= v && v <= c.High
	}
	return false
}

// deviation is the signed distance from the condition's boundary, 0 when the
// condition passes.
func (c Condition) deviation(v float64) float64 {
	switch c.Op {
	case opAtMost:
		if v > c.Threshold {
			return v - c.Threshold
		}
	case opAtLeast:
		if v < c.Threshold {
			return c.Threshold - v
		}
	case opInRange:
		if v < c.Low {
			return c.Low - v
		}
		if v > c.High {
			return v - c.High
		}
	}
	return 0
}

// featureValue resolves a named feature against the record. An absent key
// evaluates as 0. That silently biases partial matches toward buckets with
// low at_most thresholds; it matches the behavior the playlists were built
// with, so it is kept rather than fixed.
func featureValue(features map[string]float64, name string) float64 {
	return features[name]
}

// Classify assigns a feature record to exactly one of the six rule-table
// buckets. It is total: whatever the values, some bucket name is returned,
// and never Other.
func Classify(features map[string]float64) string {
	return classifyAgainst(Buckets, features)
}

// classifyAgainst runs the three-stage algorithm over an explicit table: the
// first bucket whose conditions all pass wins; failing that, buckets are
// scored by how many conditions pass; ties are broken by the smallest total
// deviation across the bucket's conditions, then by table order.
func classifyAgainst(buckets []Bucket, features map[string]float64) string {
	for _, b := range buckets {
		if fullMatch(b, features) {
			return b.Name
		}
	}

	maxMatches := -1
	var best []int
	for i, b := range buckets {
		matches := 0
		for _, c := range b.Conditions {
			if c.passes(featureValue(features, c.Feature)) {
				matches++
			}
		}
		switch {
		case matches > maxMatches:
			maxMatches = matches
			best = []int{i}
		case matches == maxMatches:
			best = append(best, i)
		}
	}

	if len(best) == 1 {
		return buckets[best[0]].Name
	}

	// Tied on match count: smallest total deviation wins, earliest bucket
	// on a further tie.
	winner := best[0]
	minDeviation := totalDeviation(buckets[winner], features)
	for _, i := range best[1:] {
		if d := totalDeviation(buckets[i], features); d < minDeviation {
			minDeviation = d
			winner = i
		}
	}
	return buckets[winner].Name
}

func fullMatch(b Bucket, features map[string]float64) bool {
	for _, c := range b.Conditions {
		if !c.passes(featureValue(features, c.Feature)) {
			return false
		}
	}
	return true
}

func totalDeviation(b Bucket, features map[string]float64) float64 {
	var total float64
	for _, c := range b.Conditions {
		total += c.deviation(featureValue(features, c.Feature))
	}
	return total
}

// Assign routes a track to a bucket: the feature classifier when the record
// carries measurements, the genre fallback otherwise.
func Assign(features map[string]float64, genres []string) string {
	if len(features) > 0 {
		return Classify(features)
	}
	return ClassifyByGenres(genres)
}
