package utils

import "math"

// CreateRankList creates 1-based ranks for an already ordered candidate list.
// Ranks saturate at math.MaxUint16 for very long lists.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		if i+1 >= math.MaxUint16 {
			ranks[i] = math.MaxUint16
			continue
		}
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
