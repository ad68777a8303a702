package achievement

// NextMedal returns the tier awarded by the next achievement of a type,
// given how many the student already holds. Once a student has earned the
// top tier of a type, every further award of that type stays at the top.
func NextMedal(count int, hasTop bool) Medal {
	if hasTop || count >= len(Medals) {
		return Medals[len(Medals)-1]
	}
	if count < 0 {
		count = 0
	}
	return Medals[count]
}

// HighestMedal returns the highest tier among the given achievements of one
// type, "" when there are none.
func HighestMedal(achievements []Achievement) Medal {
	rank := make(map[Medal]int, len(Medals))
	for i, medal := range Medals {
		rank[medal] = i
	}
	var (
		best    Medal
		bestIdx = -1
	)
	for _, ach := range achievements {
		if idx, ok := rank[ach.MedalLevel]; ok && idx > bestIdx {
			best, bestIdx = ach.MedalLevel, idx
		}
	}
	return best
}
