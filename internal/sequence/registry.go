// Package sequence holds the numeric progression generators used for
// "what comes next" questions.
package sequence

import (
	"github.com/gokatarajesh/iqtest/internal/prng"
)

// DefaultLength is the number of visible terms in a generated question.
const DefaultLength = 5

// Difficulty tiers understood by the registry.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

// Tiers lists the difficulty tiers in allocation order.
var Tiers = []string{Easy, Medium, Hard}

// Result is a visible sequence plus the term that follows it.
type Result struct {
	Sequence []int64 `json:"sequence"`
	Answer   int64   `json:"answer"`
}

// Generator builds a sequence with at least length visible terms.
type Generator func(length int, src prng.Source) Result

// Info describes a registered generator.
type Info struct {
	Name       string
	Difficulty string
	MinLength  int
	Generate   Generator
}

// Run calls the generator with length clamped to its minimum.
func (i Info) Run(length int, src prng.Source) Result {
	return i.Generate(atLeast(length, i.MinLength), src)
}

var registry = map[string][]Info{
	Easy: {
		{"arithmetic", Easy, 1, arithmetic},
		{"geometric", Easy, 1, geometric},
		{"even-numbers", Easy, 1, evens},
		{"odd-numbers", Easy, 1, odds},
		{"squares", Easy, 1, squares},
		{"cubes", Easy, 1, cubes},
		{"add-two-sub-one", Easy, 1, addTwoSubOne},
		{"add-sub-variable", Easy, 1, addSubVariable},
		{"multiples-of-three", Easy, 1, multiplesOfThree},
		{"multiples-of-five", Easy, 1, multiplesOfFive},
	},
	Medium: {
		{"fibonacci-variant", Medium, 2, fibonacciVariant},
		{"tribonacci", Medium, 3, tribonacci},
		{"doubling-increment", Medium, 1, doublingIncrement},
		{"add-then-multiply", Medium, 1, addThenMultiply},
		{"primes", Medium, 1, primes},
		{"factorials", Medium, 1, factorials},
		{"square-plus-n", Medium, 1, squarePlusN},
		{"square-minus-one", Medium, 1, squareMinusOne},
		{"multiply-then-divide", Medium, 1, multiplyThenDivide},
		{"modulo-cycle", Medium, 1, moduloCycle},
	},
	Hard: {
		{"alternating-ratios", Hard, 1, alternatingRatios},
		{"multiply-then-add", Hard, 1, multiplyThenAdd},
		{"increasing-difference", Hard, 1, increasingDifference},
		{"changing-ratio", Hard, 1, changingRatio},
		{"squares-of-evens", Hard, 1, squaresOfEvens},
		{"cubes-of-odds", Hard, 1, cubesOfOdds},
		{"skipped-factorials", Hard, 1, skippedFactorials},
		{"repeating-cycle", Hard, 1, repeatingCycle},
		{"prime-skip-one", Hard, 1, primeSkipOne},
		{"square-cube-hybrid", Hard, 1, squareCubeHybrid},
	},
}

// ByDifficulty returns the generators registered for a tier, or nil for an
// unknown tier.
func ByDifficulty(difficulty string) []Info {
	return registry[difficulty]
}

// All returns every generator in tier order.
func All() []Info {
	var out []Info
	for _, tier := range Tiers {
		out = append(out, registry[tier]...)
	}
	return out
}

// Lookup finds a generator by name.
func Lookup(name string) (Info, bool) {
	for _, info := range All() {
		if info.Name == name {
			return info, true
		}
	}
	return Info{}, false
}

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}

func randInt(src prng.Source, min, max int64) int64 {
	return int64(prng.IntBetween(src, int(min), int(max)))
}

func pow(base int64, exp int) int64 {
	out := int64(1)
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

func factorial(n int64) int64 {
	out := int64(1)
	for i := int64(2); i <= n; i++ {
		out *= i
	}
	return out
}

func isPrime(v int64) bool {
	if v < 2 {
		return false
	}
	for i := int64(2); i*i <= v; i++ {
		if v%i == 0 {
			return false
		}
	}
	return true
}

func nextPrime(after int64) int64 {
	candidate := after + 1
	for !isPrime(candidate) {
		candidate++
	}
	return candidate
}
