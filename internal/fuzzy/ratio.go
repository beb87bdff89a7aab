// Package fuzzy scores string similarity on a 0-100 scale and builds
// threshold comparators for matching noisy bibliographic fields.
package fuzzy

import "math"

// Ratio returns the full-string similarity between a and b in [0, 100]:
// 2 * matched characters / (len(a) + len(b)), scaled to 100 and rounded.
// 100 means identical, 0 means nothing in common. Two empty strings
// score 100.
func Ratio(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	lenSum := len(ra) + len(rb)
	if lenSum == 0 {
		return 100
	}

	matched := lcsLength(ra, rb)
	return int(math.Round(float64(2*matched) / float64(lenSum) * 100))
}

// PartialRatio returns the best alignment of the shorter string against any
// contiguous same-length window of the longer one, on the same 0-100 scale.
// It tolerates length asymmetry, e.g. a fetched title with an added subtitle.
func PartialRatio(a, b string) int {
	shorter := []rune(a)
	longer := []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		matched := lcsLength(shorter, window)
		score := int(math.Round(float64(matched) / float64(len(shorter)) * 100))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// lcsLength computes the longest-common-subsequence length of two rune
// slices with the classic two-row dynamic programming formulation.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
