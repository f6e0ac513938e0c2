package measure

import "github.com/qbit-labs/qproc/internal/domain"

// Majority decodes redundant votes into one bit: the value with strictly more
// occurrences wins. An even split decodes to 0, matching the sum > n/2 rule
// of repetition decoding; the tie-break is fixed so even repetition factors
// stay deterministic.
func Majority(votes []domain.Bit) domain.Bit {
	ones := 0
	for _, v := range votes {
		if v == domain.BitOne {
			ones++
		}
	}
	if ones > len(votes)-ones {
		return domain.BitOne
	}
	return domain.BitZero
}
