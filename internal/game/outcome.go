package game

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome é o resultado bruto de um sorteio, antes de ser avaliado contra
// a escolha do jogador. Nonce, SeedHash e Proof formam a trilha de
// auditoria: com o server seed revelado após a rotação, qualquer um
// reproduz o HMAC e confere o resultado.
type Outcome struct {
	GameType Type      `json:"game_type"`
	Result   string    `json:"result"`
	DrawnAt  time.Time `json:"drawn_at"`
	Nonce    string    `json:"nonce"`
	SeedHash string    `json:"seed_hash"`
	Proof    string    `json:"proof"`
}

// SeedManager guarda o server seed corrente e seu compromisso SHA-256.
// O hash pode ser publicado antes dos sorteios; o seed em si só é
// revelado depois que sai de uso.
type SeedManager struct {
	mu          sync.Mutex
	serverSeed  string
	hash        string
	rotatedAt   time.Time
	rotateEvery time.Duration
}

func NewSeedManager() *SeedManager {
	m := &SeedManager{rotateEvery: 24 * time.Hour}
	m.rotate()
	return m
}

// Hash retorna o compromisso público do seed corrente.
func (m *SeedManager) Hash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hash
}

func (m *SeedManager) rotate() {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// sem entropia do SO não dá pra sortear nada com segurança
		panic("seed entropy unavailable: " + err.Error())
	}
	m.serverSeed = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(m.serverSeed))
	m.hash = hex.EncodeToString(sum[:])
	m.rotatedAt = time.Now()
}

// current devolve seed e hash vigentes, rotacionando se o período venceu.
func (m *SeedManager) current() (seed, hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Since(m.rotatedAt) > m.rotateEvery {
		m.rotate()
	}
	return m.serverSeed, m.hash
}

// Generator produz resultados de jogo imprevisíveis para o cliente.
// O sorteio depende só do server seed e de um nonce gerado aqui dentro;
// nenhum dado do jogador entra no cálculo.
type Generator struct {
	seeds *SeedManager
}

func NewGenerator(seeds *SeedManager) *Generator {
	return &Generator{seeds: seeds}
}

// Draw sorteia um resultado para o jogo informado.
func (g *Generator) Draw(t Type) (Outcome, error) {
	if !Supported(t) {
		return Outcome{}, ErrUnsupportedGame
	}

	seed, hash := g.seeds.current()
	nonce := uuid.NewString()
	roll, proof := hmacRoll(seed, nonce)

	out := Outcome{
		GameType: t,
		DrawnAt:  time.Now().UTC(),
		Nonce:    nonce,
		SeedHash: hash,
		Proof:    proof,
	}

	switch t {
	case Wheel:
		// segmentos pares são azuis, ímpares brancos
		if roll%wheelSegments%2 == 0 {
			out.Result = ChoiceBlue
		} else {
			out.Result = ChoiceWhite
		}
	case RockPaperScissors:
		out.Result = []string{ChoiceRock, ChoicePaper, ChoiceScissors}[roll%3]
	}

	return out, nil
}

// hmacRoll deriva um inteiro uniforme de HMAC-SHA256(serverSeed, nonce).
// O hex completo é devolvido como prova verificável do sorteio.
func hmacRoll(serverSeed, nonce string) (int, string) {
	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(nonce))
	proof := hex.EncodeToString(h.Sum(nil))

	num, _ := strconv.ParseInt(proof[:8], 16, 64)
	return int(num), proof
}

// VerifyProof reexecuta o HMAC de um sorteio a partir do server seed
// revelado. Usado em auditoria de fairness.
func VerifyProof(serverSeed, nonce, proof string) bool {
	_, got := hmacRoll(serverSeed, nonce)
	return hmac.Equal([]byte(got), []byte(proof))
}
