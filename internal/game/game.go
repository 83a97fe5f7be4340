package game

import "errors"

// Type identifica o jogo. Os valores são os mesmos que trafegam na API
// e nos eventos Kafka.
type Type string

const (
	Wheel             Type = "wheel"
	RockPaperScissors Type = "rock_paper_scissors"
)

// Escolhas por jogo
const (
	ChoiceBlue  = "blue"
	ChoiceWhite = "white"

	ChoiceRock     = "rock"
	ChoicePaper    = "paper"
	ChoiceScissors = "scissors"
)

var (
	ErrUnsupportedGame = errors.New("unsupported game type")
	ErrInvalidChoice   = errors.New("invalid choice for game")
)

// Roda de 10 segmentos alternando duas cores: resultado binário 50/50.
const wheelSegments = 10

var choices = map[Type][]string{
	Wheel:             {ChoiceBlue, ChoiceWhite},
	RockPaperScissors: {ChoiceRock, ChoicePaper, ChoiceScissors},
}

// Supported informa se o tipo de jogo está configurado.
func Supported(t Type) bool {
	_, ok := choices[t]
	return ok
}

// ValidChoice valida a escolha do jogador para o jogo informado.
func ValidChoice(t Type, choice string) bool {
	for _, c := range choices[t] {
		if c == choice {
			return true
		}
	}
	return false
}
