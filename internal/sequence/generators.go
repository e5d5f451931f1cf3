package sequence

import "github.com/gokatarajesh/iqtest/internal/prng"

// Easy tier.

func arithmetic(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	first := randInt(src, 1, 10)
	diff := randInt(src, 1, 5)
	seq := make([]int64, count)
	for i := range seq {
		seq[i] = first + diff*int64(i)
	}
	return Result{Sequence: seq, Answer: first + diff*int64(count)}
}

func geometric(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	first := randInt(src, 1, 5)
	ratio := randInt(src, 2, 5)
	seq := make([]int64, count)
	for i := range seq {
		seq[i] = first * pow(ratio, i)
	}
	return Result{Sequence: seq, Answer: seq[count-1] * ratio}
}

func evens(length int, src prng.Source) Result {
	return stepped(atLeast(length, 1), randInt(src, 1, 5)*2, 2)
}

func odds(length int, src prng.Source) Result {
	return stepped(atLeast(length, 1), randInt(src, 0, 4)*2+1, 2)
}

func squares(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 2, 6)
	return indexed(count, func(i int) int64 { n := start + int64(i); return n * n })
}

func cubes(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 2, 4)
	return indexed(count, func(i int) int64 { return pow(start+int64(i), 3) })
}

func addTwoSubOne(length int, src prng.Source) Result {
	start := randInt(src, 5, 20)
	return alternating(atLeast(length, 1), start,
		func(v int64) int64 { return v + 2 },
		func(v int64) int64 { return v - 1 })
}

func addSubVariable(length int, src prng.Source) Result {
	start := randInt(src, 5, 25)
	add := randInt(src, 4, 7)
	sub := max(1, add-2)
	return alternating(atLeast(length, 1), start,
		func(v int64) int64 { return v + add },
		func(v int64) int64 { return v - sub })
}

func multiplesOfThree(length int, src prng.Source) Result {
	return stepped(atLeast(length, 1), randInt(src, 1, 10)*3, 3)
}

func multiplesOfFive(length int, src prng.Source) Result {
	return stepped(atLeast(length, 1), randInt(src, 1, 10)*5, 5)
}

// Medium tier.

var fibonacciSeeds = [][2]int64{{1, 1}, {2, 3}}

func fibonacciVariant(length int, src prng.Source) Result {
	count := atLeast(length, 2)
	pair := fibonacciSeeds[randInt(src, 0, int64(len(fibonacciSeeds)-1))]
	seq := []int64{pair[0], pair[1]}
	for len(seq) < count {
		n := len(seq)
		seq = append(seq, seq[n-1]+seq[n-2])
	}
	n := len(seq)
	return Result{Sequence: seq, Answer: seq[n-1] + seq[n-2]}
}

func tribonacci(length int, src prng.Source) Result {
	count := atLeast(length, 3)
	seq := []int64{randInt(src, 1, 3), randInt(src, 1, 3), randInt(src, 1, 3)}
	for len(seq) < count {
		n := len(seq)
		seq = append(seq, seq[n-1]+seq[n-2]+seq[n-3])
	}
	n := len(seq)
	return Result{Sequence: seq, Answer: seq[n-1] + seq[n-2] + seq[n-3]}
}

func doublingIncrement(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 1, 10)
	factor := randInt(src, 2, 3)
	seq := make([]int64, count)
	for i := range seq {
		seq[i] = start * pow(factor, i)
	}
	return Result{Sequence: seq, Answer: seq[count-1] * factor}
}

func addThenMultiply(length int, src prng.Source) Result {
	start := randInt(src, 2, 10)
	add := randInt(src, 1, 5)
	factor := randInt(src, 2, 4)
	return alternating(atLeast(length, 1), start,
		func(v int64) int64 { return v + add },
		func(v int64) int64 { return v * factor })
}

var startingPrimes = []int64{2, 3, 5, 7}

func primes(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	seq := []int64{startingPrimes[randInt(src, 0, int64(len(startingPrimes)-1))]}
	for len(seq) < count {
		seq = append(seq, nextPrime(seq[len(seq)-1]))
	}
	return Result{Sequence: seq, Answer: nextPrime(seq[len(seq)-1])}
}

func factorials(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 1, 3)
	return indexed(count, func(i int) int64 { return factorial(start + int64(i)) })
}

func squarePlusN(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 1, 6)
	return indexed(count, func(i int) int64 { n := start + int64(i); return n*n + n })
}

func squareMinusOne(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 2, 7)
	return indexed(count, func(i int) int64 { n := start + int64(i); return n*n - 1 })
}

func multiplyThenDivide(length int, src prng.Source) Result {
	start := randInt(src, 2, 12)
	factor := randInt(src, 2, 4)
	return alternating(atLeast(length, 1), start,
		func(v int64) int64 { return v * factor },
		func(v int64) int64 { return v / factor })
}

func moduloCycle(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	cycle := randInt(src, 3, 5)
	offset := randInt(src, 0, cycle-1)
	return indexed(count, func(i int) int64 { return (int64(i)+offset)%cycle + 1 })
}

// Hard tier.

func alternatingRatios(length int, src prng.Source) Result {
	return ratioCycle(atLeast(length, 1), randInt(src, 1, 5))
}

func multiplyThenAdd(length int, src prng.Source) Result {
	start := randInt(src, 3, 12)
	add := randInt(src, 2, 6)
	factor := randInt(src, 2, 4)
	return alternating(atLeast(length, 1), start,
		func(v int64) int64 { return v * factor },
		func(v int64) int64 { return v + add })
}

func increasingDifference(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	current := randInt(src, 5, 25)
	base := randInt(src, 1, 4)
	seq := []int64{current}
	for step := 0; step < count-1; step++ {
		current += base + int64(step)
		seq = append(seq, current)
	}
	return Result{Sequence: seq, Answer: current + base + int64(count-1)}
}

func changingRatio(length int, src prng.Source) Result {
	return ratioCycle(atLeast(length, 1), randInt(src, 1, 4))
}

func squaresOfEvens(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 1, 5) * 2
	return indexed(count, func(i int) int64 { n := start + int64(i)*2; return n * n })
}

func cubesOfOdds(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 1, 5)*2 - 1
	return indexed(count, func(i int) int64 { return pow(start+int64(i)*2, 3) })
}

func skippedFactorials(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	start := randInt(src, 1, 3)*2 - 1
	return indexed(count, func(i int) int64 { return factorial(start + int64(i)*2) })
}

var cycleDeltas = []int64{1, 2, 3}

func repeatingCycle(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	current := randInt(src, 5, 20)
	seq := []int64{current}
	for step := 0; step < count-1; step++ {
		current += cycleDeltas[step%len(cycleDeltas)]
		seq = append(seq, current)
	}
	return Result{Sequence: seq, Answer: current + cycleDeltas[(count-1)%len(cycleDeltas)]}
}

var basePrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

func primeSkipOne(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	current := basePrimes[randInt(src, 0, 4)]
	seq := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		seq = append(seq, current)
		current = nextPrime(nextPrime(current))
	}
	return Result{Sequence: seq, Answer: current}
}

func squareCubeHybrid(length int, src prng.Source) Result {
	count := atLeast(length, 1)
	base := randInt(src, 2, 5)
	seq := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		if i%2 == 0 {
			seq = append(seq, base*base)
			continue
		}
		seq = append(seq, pow(base, 3))
		base++
	}
	if count%2 == 0 {
		return Result{Sequence: seq, Answer: base * base}
	}
	return Result{Sequence: seq, Answer: pow(base, 3)}
}

// shared shapes

func stepped(count int, start, step int64) Result {
	return indexed(count, func(i int) int64 { return start + int64(i)*step })
}

// indexed fills count terms from term(i) and answers with term(count).
func indexed(count int, term func(i int) int64) Result {
	seq := make([]int64, count)
	for i := range seq {
		seq[i] = term(i)
	}
	return Result{Sequence: seq, Answer: term(count)}
}

// alternating applies even then odd on successive steps, starting with even.
func alternating(count int, start int64, even, odd func(int64) int64) Result {
	apply := func(step int, v int64) int64 {
		if step%2 == 0 {
			return even(v)
		}
		return odd(v)
	}
	current := start
	seq := []int64{start}
	for step := 0; step < count-1; step++ {
		current = apply(step, current)
		seq = append(seq, current)
	}
	return Result{Sequence: seq, Answer: apply(count-1, current)}
}

var ratioPair = []int64{2, 3}

func ratioCycle(count int, start int64) Result {
	current := start
	seq := []int64{start}
	for step := 0; step < count-1; step++ {
		current *= ratioPair[step%len(ratioPair)]
		seq = append(seq, current)
	}
	return Result{Sequence: seq, Answer: current * ratioPair[(count-1)%len(ratioPair)]}
}
