package game

// Category classifica o resultado de uma aposta.
type Category string

const (
	Win  Category = "win"
	Lose Category = "lose"
	Tie  Category = "tie"
)

// Terms é a parte monetária de uma liquidação: categoria, multiplicador
// aplicado sobre a aposta e delta líquido no saldo.
type Terms struct {
	Category   Category
	Multiplier float64
	DeltaCents int64
}

// jogada -> jogada que ela vence
var beats = map[string]string{
	ChoiceRock:     ChoiceScissors,
	ChoicePaper:    ChoiceRock,
	ChoiceScissors: ChoicePaper,
}

// Evaluate pontua uma aposta contra o resultado sorteado.
// Função pura: sem I/O, sem aleatoriedade. Multiplicador 2.0 é retorno
// total (lucro líquido = +stake); empate devolve a aposta.
func Evaluate(t Type, playerChoice string, outcome Outcome, stakeCents int64) (Terms, error) {
	if !Supported(t) {
		return Terms{}, ErrUnsupportedGame
	}
	if !ValidChoice(t, playerChoice) {
		return Terms{}, ErrInvalidChoice
	}

	switch t {
	case Wheel:
		if playerChoice == outcome.Result {
			return Terms{Category: Win, Multiplier: 2.0, DeltaCents: stakeCents}, nil
		}
		return Terms{Category: Lose, Multiplier: 0, DeltaCents: -stakeCents}, nil

	case RockPaperScissors:
		if playerChoice == outcome.Result {
			return Terms{Category: Tie, Multiplier: 1.0, DeltaCents: 0}, nil
		}
		if beats[playerChoice] == outcome.Result {
			return Terms{Category: Win, Multiplier: 2.0, DeltaCents: stakeCents}, nil
		}
		return Terms{Category: Lose, Multiplier: 0, DeltaCents: -stakeCents}, nil
	}

	return Terms{}, ErrUnsupportedGame
}
