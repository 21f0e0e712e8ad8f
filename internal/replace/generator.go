package replace

import (
	"math/rand"
	"strings"
	"time"

	"github.com/Jelly-Pudding/ereddicator/internal/config"
)

// AdvertiseProbability is the chance a single overwrite advertises the
// tool instead of using the configured text. Fixed, not user-tunable.
const AdvertiseProbability = 0.5

const advertisement = "I have scrubbed my Reddit history with ereddicator: https://github.com/Jelly-Pudding/ereddicator"

// fillerPhrases is the default overwrite pool when no custom text is set.
var fillerPhrases = []string{
	"This content has been removed by its author.",
	"Nothing to see here anymore.",
	"The author of this content has erased it.",
	"Content withdrawn.",
	"This text was overwritten before deletion.",
	"Gone. Reduced to atoms.",
	"The original text is no longer available.",
	"Removed at the author's request.",
}

// Generator produces replacement text. It is stateless with respect to
// item identity; the only state is the process-wide random source used
// for the advertise coin flip and pool draws.
type Generator struct {
	rng *rand.Rand
}

// New returns a time-seeded Generator.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource allows deterministic draws in tests.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Next returns the text for one overwrite pass. Each call draws
// independently, so the three passes of an edit-then-delete need not
// produce identical text.
func (g *Generator) Next(cfg *config.Config) string {
	if cfg.Advertise && g.rng.Float64() < AdvertiseProbability {
		return advertisement
	}
	if cfg.ReplacementText == "random" {
		return g.RandomText()
	}
	if cfg.ReplacementText != "" {
		return cfg.ReplacementText
	}
	return fillerPhrases[g.rng.Intn(len(fillerPhrases))]
}

// RandomText generates gibberish filler: 2-17 words of 3-12 lowercase
// letters. Kept for users who want unrecognizable overwrites rather than
// a canned phrase ("random" as replacement_text selects it).
func (g *Generator) RandomText() string {
	words := make([]string, 0, 17)
	numWords := 2 + g.rng.Intn(16)
	for i := 0; i < numWords; i++ {
		length := 3 + g.rng.Intn(10)
		var b strings.Builder
		for j := 0; j < length; j++ {
			b.WriteByte(byte('a' + g.rng.Intn(26)))
		}
		words = append(words, b.String())
	}
	return strings.Join(words, " ")
}
