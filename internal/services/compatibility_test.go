package services

import (
	"math/rand/v2"
	"testing"

	"perfect-match-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_IdenticalProfilesScore100(t *testing.T) {
	for _, v := range []int{1, 3, 5} {
		for _, attractiveness := range []float64{1, 6.5, 10} {
			a := &models.Profile{Answers: answers(20, v), Attractiveness: attractiveness}
			b := &models.Profile{Answers: answers(20, v), Attractiveness: attractiveness}

			assert.Equal(t, 100.0, Score(a, b, CandidatePoints))
			assert.Equal(t, 100.0, Score(a, b, ReciprocalPoints))
		}
	}
}

func TestScore_EndToEndExample(t *testing.T) {
	a := &models.Profile{Answers: answers(20, 5), Attractiveness: 10}
	b := &models.Profile{Answers: answers(20, 5), Attractiveness: 10}

	require.Equal(t, "100.0", FormatScore(Score(a, b, CandidatePoints)))
}

func TestScore_SymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	randomProfile := func() *models.Profile {
		ans := make([]int, 20)
		for i := range ans {
			ans[i] = 1 + rng.IntN(5)
		}
		return &models.Profile{Answers: ans, Attractiveness: 1 + rng.Float64()*9}
	}

	for i := 0; i < 500; i++ {
		a, b := randomProfile(), randomProfile()
		for _, table := range []PointTable{CandidatePoints, ReciprocalPoints} {
			ab := Score(a, b, table)
			ba := Score(b, a, table)
			require.Equal(t, ab, ba)
			require.GreaterOrEqual(t, ab, 0.0)
			require.LessOrEqual(t, ab, 100.0)
		}
	}
}

func TestAnswerPercent_LengthMismatchIsZero(t *testing.T) {
	require.Zero(t, AnswerPercent(answers(20, 3), answers(19, 3), CandidatePoints))
	require.Zero(t, AnswerPercent(nil, nil, CandidatePoints))

	a := &models.Profile{Answers: answers(20, 3), Attractiveness: 10}
	b := &models.Profile{Answers: answers(10, 3), Attractiveness: 10}
	require.Equal(t, 20.0, Score(a, b, CandidatePoints))
}

func TestAnswerPercent_PointTables(t *testing.T) {
	tests := []struct {
		name  string
		diff  int
		table PointTable
		want  float64
	}{
		{"candidate diff 0", 0, CandidatePoints, 100},
		{"candidate diff 1", 1, CandidatePoints, 85},
		{"candidate diff 2", 2, CandidatePoints, 65},
		{"candidate diff 3", 3, CandidatePoints, 40},
		{"candidate diff 4", 4, CandidatePoints, 0},
		{"reciprocal diff 1", 1, ReciprocalPoints, 70},
		{"reciprocal diff 3", 3, ReciprocalPoints, 30},
		{"reciprocal diff 4", 4, ReciprocalPoints, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnswerPercent(answers(20, 1), answers(20, 1+tt.diff), tt.table)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAnswerPercent_DiffClampsAtFour(t *testing.T) {
	require.Equal(t,
		AnswerPercent([]int{0}, []int{4}, ReciprocalPoints),
		AnswerPercent([]int{0}, []int{40}, ReciprocalPoints),
	)
}

func TestAttractivenessSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, AttractivenessSimilarity(0), 1e-12)
	require.Zero(t, AttractivenessSimilarity(10))
	require.Zero(t, AttractivenessSimilarity(25))

	prev := AttractivenessSimilarity(0)
	for d := 0.5; d <= 10; d += 0.5 {
		cur := AttractivenessSimilarity(d)
		require.Less(t, cur, prev, "similarity must decrease as the gap grows (d=%v)", d)
		prev = cur
	}

	// small gaps are penalised less than proportionally
	require.Greater(t, AttractivenessSimilarity(1), 0.9)
}

func TestScore_KnownValues(t *testing.T) {
	a := &models.Profile{Answers: answers(20, 2), Attractiveness: 10}
	b := &models.Profile{Answers: answers(20, 3), Attractiveness: 10}
	require.Equal(t, 88.0, Score(a, b, CandidatePoints))
	require.Equal(t, 76.0, Score(a, b, ReciprocalPoints))

	c := &models.Profile{Answers: answers(20, 1), Attractiveness: 10}
	d := &models.Profile{Answers: answers(20, 5), Attractiveness: 10}
	require.Equal(t, 20.0, Score(c, d, CandidatePoints))
	require.Equal(t, 28.0, Score(c, d, ReciprocalPoints))
}

func TestFormatScore(t *testing.T) {
	require.Equal(t, "100.0", FormatScore(100))
	require.Equal(t, "87.5", FormatScore(87.5))
	require.Equal(t, "20.0", FormatScore(20))
}
