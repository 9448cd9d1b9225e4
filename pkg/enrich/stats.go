package enrich

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// HypergeomUpperTail returns P(X >= k) for X drawn from a hypergeometric
// distribution: n draws without replacement from a population of N holding K
// successes. This is the one-sided Fisher exact test for over-representation.
func HypergeomUpperTail(k, n, K, N int) float64 {
	if N <= 0 || n <= 0 || K <= 0 || n > N || K > N {
		if k <= 0 {
			return 1
		}
		return 0
	}

	lo := max(0, n-(N-K))
	hi := min(n, K)
	if k <= lo {
		return 1
	}
	if k > hi {
		return 0
	}

	logTotal := combin.LogGeneralizedBinomial(float64(N), float64(n))
	logTerms := make([]float64, 0, hi-k+1)
	for i := k; i <= hi; i++ {
		logTerms = append(logTerms,
			combin.LogGeneralizedBinomial(float64(K), float64(i))+
				combin.LogGeneralizedBinomial(float64(N-K), float64(n-i))-
				logTotal)
	}

	return clamp01(math.Exp(floats.LogSumExp(logTerms)))
}

// BenjaminiHochberg returns FDR adjusted p-values in the order of raw.
//
// On the ascending order, adjusted[i] = min(adjusted[i+1], raw[i]*m/(i+1)),
// capped at 1. Ties keep their input order.
func BenjaminiHochberg(raw []float64) []float64 {
	m := len(raw)
	adjusted := make([]float64, m)
	if m == 0 {
		return adjusted
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return raw[order[a]] < raw[order[b]] })

	sorted := make([]float64, m)
	for rank, i := range order {
		sorted[rank] = raw[i]
	}

	running := 1.0
	for rank := m - 1; rank >= 0; rank-- {
		v := sorted[rank] * float64(m) / float64(rank+1)
		if v < running {
			running = v
		}
		// max guards against p*m/m rounding below p.
		sorted[rank] = clamp01(math.Max(running, sorted[rank]))
	}

	for rank, i := range order {
		adjusted[i] = sorted[rank]
	}
	return adjusted
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
