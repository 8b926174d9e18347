package sentiment

import (
	"context"
	"strings"
	"unicode"

	"github.com/Wandor/journaling-node/internal/domain/models"
)

// LexiconAnalyzer is the in-process sentiment backend: an AFINN-style
// valence lexicon summed over tokens. Comparative is the score normalized
// by token count, matching the conventional lexicon-analyzer output.
type LexiconAnalyzer struct{}

func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{}
}

func (a *LexiconAnalyzer) AnalyzeSentiment(_ context.Context, text string) (*models.SentimentResult, error) {
	tokens := tokenize(text)

	result := &models.SentimentResult{}
	score := 0
	for _, token := range tokens {
		valence, ok := valences[token]
		if !ok {
			continue
		}
		score += valence
		if valence > 0 {
			result.Positive = append(result.Positive, token)
		} else {
			result.Negative = append(result.Negative, token)
		}
	}

	result.Score = float64(score)
	if len(tokens) > 0 {
		result.Comparative = float64(score) / float64(len(tokens))
	}
	return result, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

// valences is a compact AFINN-style subset covering the vocabulary journal
// entries actually hit. Scores range -5..5.
var valences = map[string]int{
	"abandoned": -2, "abuse": -3, "accept": 1, "accomplish": 2, "ache": -2,
	"admire": 3, "adore": 3, "afraid": -2, "aggressive": -2, "agony": -3,
	"alive": 1, "alone": -2, "amazing": 4, "anger": -3, "angry": -3,
	"annoyed": -2, "anxious": -2, "appreciate": 2, "ashamed": -2,
	"awesome": 4, "awful": -3, "bad": -3, "beautiful": 3, "best": 3,
	"better": 2, "bitter": -2, "bless": 2, "blessed": 3, "bored": -2,
	"brave": 2, "bright": 1, "broken": -2, "calm": 2, "care": 2,
	"celebrate": 3, "cheerful": 2, "comfort": 2, "confident": 2,
	"confused": -2, "content": 2, "cried": -2, "cry": -2, "curious": 1,
	"damage": -3, "dark": -1, "dead": -3, "defeated": -2, "delight": 3,
	"depressed": -3, "despair": -3, "devastated": -3, "difficult": -1,
	"disappointed": -2, "disaster": -2, "dread": -2, "dream": 1,
	"eager": 2, "easy": 1, "ecstatic": 4, "embarrassed": -2, "empty": -1,
	"energetic": 2, "enjoy": 2, "enjoyed": 2, "excellent": 3,
	"excited": 3, "exhausted": -2, "fail": -2, "failed": -2,
	"fantastic": 4, "fear": -2, "fight": -1, "fine": 2, "fortunate": 2,
	"free": 1, "fresh": 1, "friendly": 2, "frustrated": -2, "fun": 4,
	"furious": -3, "generous": 2, "gentle": 2, "glad": 3, "gloomy": -2,
	"good": 3, "grateful": 3, "great": 3, "grief": -2, "grumpy": -2,
	"guilt": -3, "happy": 3, "hate": -3, "hated": -3, "healthy": 2,
	"heartbroken": -3, "helpless": -2, "hope": 2, "hopeful": 2,
	"hopeless": -2, "horrible": -3, "hugs": 2, "hurt": -2, "ill": -2,
	"impressed": 3, "inspired": 2, "irritated": -2, "joy": 3, "joyful": 3,
	"kind": 2, "laugh": 1, "laughed": 1, "lazy": -1, "lonely": -2,
	"lost": -3, "love": 3, "loved": 3, "lovely": 3, "lucky": 3,
	"mad": -3, "miserable": -3, "miss": -2, "missed": -2, "nervous": -2,
	"nice": 3, "numb": -1, "optimistic": 2, "overwhelmed": -2,
	"pain": -2, "panic": -3, "peaceful": 2, "perfect": 3, "pleasant": 3,
	"pleased": 3, "positive": 2, "pride": 1, "proud": 2, "regret": -2,
	"relaxed": 2, "relief": 1, "relieved": 2, "sad": -2, "satisfied": 2,
	"scared": -2, "sick": -2, "smile": 2, "sorry": -1, "strength": 2,
	"stress": -1, "stressed": -2, "strong": 2, "struggle": -2,
	"stupid": -2, "success": 2, "successful": 3, "suffer": -2,
	"surprised": 1, "terrible": -3, "terrified": -3, "thankful": 2,
	"tired": -2, "triumph": 4, "ugly": -3, "upset": -2, "useless": -2,
	"victory": 3, "warm": 1, "weak": -2, "welcome": 2, "win": 4,
	"won": 3, "wonderful": 4, "worried": -3, "worry": -3, "worst": -3,
	"worthless": -2, "wrong": -2,
}
