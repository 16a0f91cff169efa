package markup

import (
	"strings"

	"github.com/wippyai/salience-go"
)

// spans accumulates inline markup. A token is preceded by a space unless
// it is post-fixed.
type spans struct {
	b    strings.Builder
	open string
}

func (s *spans) space(tok salience.Token) {
	if !tok.PostFixed {
		s.b.WriteByte(' ')
	}
}

func (s *spans) word(tok salience.Token) {
	s.b.WriteString(tok.Text)
}

func (s *spans) start(tag string) {
	s.b.WriteByte('[')
	s.b.WriteString(tag)
	s.b.WriteByte(']')
	s.open = tag
}

func (s *spans) end(tag string) {
	s.b.WriteString("[/")
	s.b.WriteString(tag)
	s.b.WriteByte(']')
}

// closeOpen ends the open span, if any.
func (s *spans) closeOpen() {
	if s.open != "" {
		s.end(s.open)
		s.open = ""
	}
}

func (s *spans) String() string {
	return s.b.String()
}

// Entity wraps runs of tokens sharing an entity id pair in a span labeled
// with the entity type: " [LOCATION]Paris[/LOCATION] is nice". Tokens with
// the untagged id are emitted plain. Spans may cross sentence boundaries.
func Entity(doc salience.Document) string {
	var (
		s         spans
		primary   = salience.Untagged
		secondary = salience.Untagged
		label     string
	)
	closeSpan := func() {
		if primary != salience.Untagged {
			s.end(label)
			primary, secondary = salience.Untagged, salience.Untagged
		}
	}

	for _, sent := range doc.Sentences {
		for _, tok := range sent.Tokens {
			switch {
			case !tok.Tagged():
				closeSpan()
				s.space(tok)
			case tok.ID == primary && tok.SecondaryID == secondary:
				s.space(tok)
			default:
				closeSpan()
				s.space(tok)
				primary, secondary, label = tok.ID, tok.SecondaryID, tok.EntityType
				s.b.WriteByte('[')
				s.b.WriteString(label)
				s.b.WriteByte(']')
			}
			s.word(tok)
		}
	}
	closeSpan()
	return s.String()
}

// POS wraps every token in its part-of-speech tag: " [NNP]Paris[/NNP]".
func POS(doc salience.Document) string {
	var s spans
	for _, sent := range doc.Sentences {
		for _, tok := range sent.Tokens {
			s.space(tok)
			s.b.WriteByte('[')
			s.b.WriteString(tok.POSTag)
			s.b.WriteByte(']')
			s.word(tok)
			s.end(tok.POSTag)
		}
	}
	return s.String()
}
