package services

import (
	"math"
	"strconv"

	"perfect-match-backend/internal/models"
)

// PointTable maps an answer difference (0..4, larger clamps to 4) to points
type PointTable [5]float64

// The two listings score answers with different tables.
var (
	// CandidatePoints is used by the candidate listing (GET /matches)
	CandidatePoints = PointTable{10, 8.5, 6.5, 4, 0}
	// ReciprocalPoints is used by the rated-matches listing (GET /messages/matches)
	ReciprocalPoints = PointTable{10, 7, 5, 3, 1}
)

const (
	maxAnswerDiff  = 4
	maxAnswerPoint = 10.0

	answerWeight         = 0.8
	attractivenessWeight = 20.0

	// log saturation: steepness and the difference at which similarity hits 0
	similarityK       = 0.27
	similarityMaxDiff = 10.0
)

func (t PointTable) points(diff int) float64 {
	if diff >= maxAnswerDiff {
		return t[maxAnswerDiff]
	}
	return t[diff]
}

// AnswerPercent returns answer similarity in [0,100]. Vectors of different
// lengths, or empty vectors, score 0.
func AnswerPercent(a, b []int, table PointTable) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var total float64
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		total += table.points(diff)
	}

	return total / (float64(len(a)) * maxAnswerPoint) * 100
}

// AttractivenessSimilarity returns 1 for equal scores, decaying
// logarithmically to 0 at a difference of 10 or more
func AttractivenessSimilarity(absDiff float64) float64 {
	arg := 1 + similarityK*(similarityMaxDiff-absDiff)
	if arg <= 1 {
		return 0
	}
	sim := math.Log(arg) / math.Log(1+similarityK*similarityMaxDiff)
	return math.Max(0, math.Min(1, sim))
}

// Score returns the match percentage of a and b in [0,100], rounded to one
// decimal. It is symmetric in a and b.
func Score(a, b *models.Profile, table PointTable) float64 {
	weightedAnswer := AnswerPercent(a.Answers, b.Answers, table) * answerWeight
	weightedAttractiveness := AttractivenessSimilarity(math.Abs(a.Attractiveness-b.Attractiveness)) * attractivenessWeight

	return roundTenth(weightedAnswer + weightedAttractiveness)
}

// FormatScore renders a score with exactly one decimal, e.g. "100.0"
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
