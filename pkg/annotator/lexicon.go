package annotator

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/core"
)

// Lexicon is a deterministic, dictionary based sentiment engine.
//
// Each word carries a valence between -3 and +3. A preceding intensifier
// scales the next scored word and a negator within the three previous words
// flips and dampens it. The sentence total is bucketed into the five labels.
// A Lexicon is read-only after construction and safe for concurrent use.
type Lexicon struct {
	words        map[string]float64
	negators     map[string]bool
	intensifiers map[string]float64
}

// LexiconSpec is the YAML shape accepted by LoadLexicon.
type LexiconSpec struct {
	Words        map[string]float64 `yaml:"words"`
	Negators     []string           `yaml:"negators"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
}

const (
	negationWindow = 3
	negationFactor = -0.75
)

// NewLexicon returns the built-in lexicon.
func NewLexicon() *Lexicon {
	l := &Lexicon{
		words:        maps.Clone(defaultWords),
		negators:     make(map[string]bool, len(defaultNegators)),
		intensifiers: maps.Clone(defaultIntensifiers),
	}
	for _, n := range defaultNegators {
		l.negators[n] = true
	}
	return l
}

// LoadLexicon reads a YAML LexiconSpec and layers it over the built-in
// lexicon. Entries in the file override built-in entries of the same word.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	var spec LexiconSpec
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	l := NewLexicon()
	for w, v := range spec.Words {
		if v < -3 || v > 3 {
			return nil, fmt.Errorf("lexicon word %q: valence %v out of range [-3, 3]", w, v)
		}
		l.words[strings.ToLower(w)] = v
	}
	for _, n := range spec.Negators {
		l.negators[strings.ToLower(n)] = true
	}
	for w, f := range spec.Intensifiers {
		l.intensifiers[strings.ToLower(w)] = f
	}
	return l, nil
}

// Concurrency reports that a Lexicon needs no guard.
func (l *Lexicon) Concurrency() core.Concurrency { return core.Reentrant }

// Annotate implements core.Annotator.
func (l *Lexicon) Annotate(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sentences := SplitSentences(paragraph)
	out := make([]core.SentenceResult, len(sentences))
	for i, s := range sentences {
		out[i] = core.SentenceResult{Text: s, Label: Bucket(l.Score(s))}
	}
	return out, nil
}

// Score returns the summed valence of a sentence.
func (l *Lexicon) Score(sentence string) float64 {
	tokens := tokenize(sentence)
	var total float64
	for i, tok := range tokens {
		v, ok := l.words[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if f, ok := l.intensifiers[tokens[i-1]]; ok {
				v *= f
			}
		}
		for j := max(0, i-negationWindow); j < i; j++ {
			if l.negators[tokens[j]] {
				v *= negationFactor
				break
			}
		}
		total += v
	}
	return total
}

// Bucket maps a valence total onto the five-label scale.
func Bucket(score float64) core.SentimentLabel {
	switch {
	case score <= -3:
		return core.VeryNegative
	case score < -0.5:
		return core.Negative
	case score <= 0.5:
		return core.Neutral
	case score < 3:
		return core.Positive
	default:
		return core.VeryPositive
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

var defaultNegators = []string{
	"not", "no", "never", "nor", "neither", "nothing", "none", "cannot",
	"can't", "don't", "doesn't", "didn't", "won't", "isn't", "wasn't", "aren't",
	"without",
}

var defaultIntensifiers = map[string]float64{
	"very":        1.5,
	"most":        1.5,
	"deeply":      1.5,
	"truly":       1.3,
	"greatly":     1.4,
	"utterly":     1.6,
	"so":          1.3,
	"too":         1.2,
	"highly":      1.4,
	"extremely":   1.7,
	"profoundly":  1.6,
	"somewhat":    0.6,
	"slightly":    0.5,
	"barely":      0.4,
	"fairly":      0.8,
	"gravely":     1.5,
	"incredibly":  1.6,
	"exceedingly": 1.6,
}

// defaultWords leans toward the vocabulary of political and ceremonial speech.
var defaultWords = map[string]float64{
	// positive
	"good": 1.5, "great": 2, "best": 2.5, "better": 1.5, "well": 1,
	"hope": 2, "hopes": 2, "hopeful": 2, "faith": 1.5, "free": 1.5,
	"freedom": 2, "liberty": 2, "peace": 2, "peaceful": 2, "justice": 2,
	"just": 1, "honor": 2, "honour": 2, "proud": 2, "pride": 1.5,
	"strength": 1.5, "strong": 1.5, "courage": 2, "brave": 2, "noble": 2,
	"glory": 2, "glorious": 2.5, "blessed": 2, "bless": 2, "blessing": 2,
	"blessings": 2, "prosperity": 2, "prosper": 2, "prosperous": 2,
	"progress": 1.5, "success": 2, "succeed": 1.5, "victory": 2.5,
	"triumph": 2.5, "unity": 1.5, "united": 1, "friend": 1.5, "friends": 1.5,
	"friendship": 2, "love": 2.5, "loved": 2, "happy": 2, "happiness": 2,
	"joy": 2.5, "grateful": 2, "gratitude": 2, "thank": 1.5, "thanks": 1.5,
	"welcome": 1.5, "secure": 1, "safe": 1, "dignity": 1.5, "equal": 1,
	"fair": 1, "trust": 1.5, "wisdom": 1.5, "wise": 1.5, "promise": 1,
	"opportunity": 1.5, "dream": 1.5, "bright": 1.5, "celebrate": 2,
	"achieve": 1.5, "achievement": 1.5, "heal": 1.5, "healing": 1.5,
	"greatness": 2, "generous": 2, "kindness": 2, "compassion": 2,
	"devotion": 1.5, "dedicated": 1, "resolve": 1, "renewal": 1.5,
	"abundance": 2, "beautiful": 2, "excellent": 2.5, "magnificent": 3,
	"wonderful": 2.5, "nice": 1, "gain": 1, "win": 1.5, "support": 1,
	"rights": 1, "righteous": 1.5, "sacred": 1.5, "loyal": 1.5,
	// negative
	"bad": -1.5, "worse": -2, "worst": -2.5, "war": -2, "wars": -2,
	"fear": -2, "fears": -2, "afraid": -2, "terror": -2.5, "terrible": -2.5,
	"enemy": -2, "enemies": -2, "hate": -2.5, "hatred": -2.5, "evil": -2.5,
	"death": -2, "dead": -2, "die": -2, "died": -2, "kill": -2.5,
	"killed": -2.5, "suffer": -2, "suffering": -2, "poverty": -2, "poor": -1.5,
	"hunger": -2, "crisis": -2, "danger": -2, "dangerous": -2, "threat": -2,
	"threats": -2, "destroy": -2.5, "destruction": -2.5, "tyranny": -2.5,
	"oppression": -2.5, "slavery": -2.5, "injustice": -2, "unjust": -2,
	"shame": -2, "disgrace": -2.5, "failure": -2, "fail": -1.5, "failed": -1.5,
	"defeat": -2, "loss": -1.5, "lost": -1.5, "sorrow": -2, "grief": -2,
	"tragedy": -2.5, "tragic": -2.5, "violence": -2.5, "violent": -2.5,
	"cruel": -2.5, "cruelty": -2.5, "anger": -2, "angry": -2, "despair": -2.5,
	"doubt": -1, "weak": -1.5, "weakness": -1.5, "corrupt": -2, "corruption": -2,
	"crime": -2, "criminal": -2, "sick": -1.5, "disease": -2, "pain": -2,
	"wrong": -1.5, "burden": -1, "struggle": -1, "struggles": -1,
	"sacrifice": -0.5, "attack": -2, "attacked": -2, "aggression": -2,
	"conflict": -1.5, "chaos": -2, "disaster": -2.5, "grave": -1,
	"oppose": -1, "unemployment": -1.5, "inflation": -1, "division": -1,
	"divided": -1, "bitter": -1.5, "cold": -0.5, "dark": -1, "darkness": -1.5,
	"horrible": -2.5, "awful": -2.5, "sad": -2, "unhappy": -2,
}
