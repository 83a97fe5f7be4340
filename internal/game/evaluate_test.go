package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateWheel(t *testing.T) {
	cases := []struct {
		name   string
		choice string
		landed string
		stake  int64
		want   Terms
	}{
		{"acertou a cor", ChoiceBlue, ChoiceBlue, 100, Terms{Win, 2.0, 100}},
		{"errou a cor", ChoiceBlue, ChoiceWhite, 100, Terms{Lose, 0, -100}},
		{"errou com stake diferente", ChoiceWhite, ChoiceBlue, 250, Terms{Lose, 0, -250}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(Wheel, tc.choice, Outcome{GameType: Wheel, Result: tc.landed}, tc.stake)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateRockPaperScissors(t *testing.T) {
	cases := []struct {
		name   string
		choice string
		bot    string
		stake  int64
		want   Terms
	}{
		{"pedra vence tesoura", ChoiceRock, ChoiceScissors, 100, Terms{Win, 2.0, 100}},
		{"papel empata com papel", ChoicePaper, ChoicePaper, 100, Terms{Tie, 1.0, 0}},
		{"tesoura perde de pedra", ChoiceScissors, ChoiceRock, 50, Terms{Lose, 0, -50}},
		{"papel vence pedra", ChoicePaper, ChoiceRock, 30, Terms{Win, 2.0, 30}},
		{"tesoura vence papel", ChoiceScissors, ChoicePaper, 30, Terms{Win, 2.0, 30}},
		{"pedra perde de papel", ChoiceRock, ChoicePaper, 30, Terms{Lose, 0, -30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(RockPaperScissors, tc.choice, Outcome{GameType: RockPaperScissors, Result: tc.bot}, tc.stake)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	_, err := Evaluate(Type("slots"), ChoiceBlue, Outcome{}, 100)
	assert.ErrorIs(t, err, ErrUnsupportedGame)

	_, err = Evaluate(Wheel, ChoiceRock, Outcome{GameType: Wheel, Result: ChoiceBlue}, 100)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}
