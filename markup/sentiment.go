package markup

import "github.com/wippyai/salience-go"

// Thresholds split token scores into negative, neutral and positive.
// A score below Negative is negative, above Positive is positive.
type Thresholds struct {
	Negative float32
	Positive float32
}

// DefaultThresholds are the engine's customary bounds.
var DefaultThresholds = Thresholds{Negative: -0.3, Positive: 0.3}

// Sentiment tag names.
const (
	TagStop          = "STOP"
	TagPossible      = "POSSIBLE"
	TagInvert        = "INVERT"
	TagHandScored    = "HANDSCORE_"
	TagInternal      = "INTERNAL_"
	TagSentencePolar = "SENTENCE_POLAR"
)

// SentimentOptions configures sentiment markup. Prefix is prepended to
// every tag name, e.g. "LXA_". Thresholds are used as given, zero included.
type SentimentOptions struct {
	Prefix     string
	Thresholds Thresholds
}

// DefaultSentimentOptions returns unprefixed options with DefaultThresholds.
func DefaultSentimentOptions() SentimentOptions {
	return SentimentOptions{Thresholds: DefaultThresholds}
}

// SentimentTag classifies one token. Tokens without a sentiment type get
// no tag.
func SentimentTag(tok salience.Token, th Thresholds) string {
	switch {
	case tok.SentimentType == salience.SentimentNone:
		return ""
	case tok.SentimentType == salience.SentimentStop:
		return TagStop
	case tok.SentimentType == salience.SentimentPossible:
		return TagPossible
	case tok.Invert:
		return TagInvert
	}

	tag := TagInternal
	if tok.SentimentType == salience.SentimentHandScored {
		tag = TagHandScored
	}
	switch {
	case tok.Sentiment < th.Negative:
		return tag + "NEGATIVE"
	case tok.Sentiment > th.Positive:
		return tag + "POSITIVE"
	default:
		return tag + "NEUTRAL"
	}
}

// Sentiment merges runs of tokens sharing a sentiment tag into spans.
// Spans never cross a sentence, and polar sentences are wrapped in a
// SENTENCE_POLAR span of their own.
func Sentiment(doc salience.Document, opts SentimentOptions) string {
	var s spans
	polar := opts.Prefix + TagSentencePolar

	for _, sent := range doc.Sentences {
		if sent.Polar {
			s.b.WriteByte('[')
			s.b.WriteString(polar)
			s.b.WriteByte(']')
		}
		for _, tok := range sent.Tokens {
			tag := SentimentTag(tok, opts.Thresholds)
			if tag != "" {
				tag = opts.Prefix + tag
			}
			if tag != s.open {
				s.closeOpen()
				s.space(tok)
				if tag != "" {
					s.start(tag)
				}
			} else {
				s.space(tok)
			}
			s.word(tok)
		}
		s.closeOpen()
		if sent.Polar {
			s.end(polar)
		}
	}
	return s.String()
}
