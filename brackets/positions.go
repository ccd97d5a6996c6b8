package brackets

import (
	"fmt"
	"math"
	"strings"
)

// SeedingMode selects how seeds are laid out on bracket slots.
type SeedingMode string

const (
	// SeedingSimplified places seeds 1-4 at the ends and middle of the draw and back-fills the
	// remaining slots left to right. Matches the historical draws of the platform.
	SeedingSimplified SeedingMode = "simplified"
	// SeedingStandard is the canonical recursive layout where seed s meets size+1-s.
	SeedingStandard SeedingMode = "standard"
)

// ParseSeedingMode reads a seeding mode from configuration. Empty means SeedingSimplified.
func ParseSeedingMode(s string) (SeedingMode, error) {
	switch SeedingMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SeedingSimplified:
		return SeedingSimplified, nil
	case SeedingStandard:
		return SeedingStandard, nil
	default:
		return "", fmt.Errorf("unknown seeding mode %q (want %q or %q)", s, SeedingSimplified, SeedingStandard)
	}
}

// BracketSize returns the smallest power of two that holds n entrants.
func BracketSize(n int) int {
	if n <= 1 {
		return 1
	}
	numRounds := int(math.Ceil(math.Log2(float64(n))))
	return 1 << uint(numRounds)
}

// BracketPositions returns the seed rank for each 0-based slot of a draw of the given size.
func BracketPositions(size int, mode SeedingMode) []int {
	if mode == SeedingStandard {
		return standardPositions(size)
	}
	return simplifiedPositions(size)
}

func simplifiedPositions(size int) []int {
	if size <= 1 {
		return []int{1}
	}
	if size == 2 {
		return []int{1, 2}
	}

	seeds := make([]int, size)
	seeds[0] = 1
	seeds[size-1] = 2
	seeds[size/2] = 3
	seeds[size/2-1] = 4

	next := 5
	for i := range seeds {
		if seeds[i] == 0 {
			seeds[i] = next
			next++
		}
	}
	return seeds
}

func standardPositions(size int) []int {
	if size <= 1 {
		return []int{1}
	}
	seeds := make([]int, size)
	seeds[0] = 1
	for n := 2; n <= size; n *= 2 {
		temp := make([]int, n)
		for i := 0; i < n/2; i++ {
			temp[i*2] = seeds[i]
			temp[i*2+1] = n + 1 - seeds[i]
		}
		copy(seeds, temp)
	}
	return seeds
}
