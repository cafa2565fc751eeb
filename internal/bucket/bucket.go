package bucket

// Offsets returns the start offset of every cluster in the grouped order,
// plus a final entry holding the total length. The number of clusters is the
// largest id in assignment plus one.
func Offsets(assignment []int) []int {
	var groups int
	for _, c := range assignment {
		groups = max(groups, c+1)
	}
	offsets := make([]int, groups+1)
	for _, c := range assignment {
		offsets[c+1]++
	}
	for c := range groups {
		offsets[c+1] += offsets[c]
	}
	return offsets
}

// Order returns the point indices grouped by ascending cluster id with a
// counting sort. Indices keep their original relative order inside a
// cluster. Every id must be non-negative.
func Order(assignment []int) []int {
	offsets := Offsets(assignment)
	cursor := offsets[:len(offsets)-1:len(offsets)-1]
	order := make([]int, len(assignment))
	for i, c := range assignment {
		order[cursor[c]] = i
		cursor[c]++
	}
	return order
}
