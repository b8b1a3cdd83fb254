package schedule

// Deduplicate keeps the first game for every identity key and preserves input order.
func Deduplicate(games []Game) []Game {
	if len(games) == 0 {
		return []Game{}
	}

	seen := make(map[Key]struct{}, len(games))
	out := make([]Game, 0, len(games))
	for _, g := range games {
		key := g.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}

	return out
}
