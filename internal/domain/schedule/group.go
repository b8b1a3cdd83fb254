package schedule

import (
	"sort"
	"time"
)

// Day is a group of games sharing one date key.
type Day struct {
	Date  string
	Games []Game
}

// GroupByDate groups games by date key. Days are ordered with SortDateKeys and
// games keep their input order inside a day.
func GroupByDate(games []Game) []Day {
	index := make(map[string]int)
	keys := make([]string, 0)
	buckets := make([][]Game, 0)
	for _, g := range games {
		i, ok := index[g.Date]
		if !ok {
			i = len(keys)
			index[g.Date] = i
			keys = append(keys, g.Date)
			buckets = append(buckets, nil)
		}
		buckets[i] = append(buckets[i], g)
	}

	sorted := SortDateKeys(keys)
	out := make([]Day, 0, len(sorted))
	for _, key := range sorted {
		out = append(out, Day{Date: key, Games: buckets[index[key]]})
	}
	return out
}

// SortDateKeys returns the keys ordered by their parsed instant. Equal instants
// keep input order. Keys that do not parse go last in input order.
func SortDateKeys(keys []string) []string {
	type parsedKey struct {
		raw string
		at  time.Time
		ok  bool
	}

	items := make([]parsedKey, 0, len(keys))
	for _, key := range keys {
		at, err := ParseDate(key)
		items = append(items, parsedKey{raw: key, at: at, ok: err == nil})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.at.Before(b.at)
	})

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.raw)
	}
	return out
}
