package markup

import (
	"strings"
	"testing"

	"github.com/wippyai/salience-go"
)

func tok(text string, id, secondary int, entityType string) salience.Token {
	return salience.Token{Text: text, ID: id, SecondaryID: secondary, EntityType: entityType, SentimentType: salience.SentimentNone}
}

func plain(text string) salience.Token {
	return tok(text, -1, -1, "")
}

func doc(sentences ...[]salience.Token) salience.Document {
	var d salience.Document
	for _, toks := range sentences {
		d.Sentences = append(d.Sentences, salience.Sentence{Tokens: toks})
	}
	return d
}

func TestEntity(t *testing.T) {
	postfixed := plain(".")
	postfixed.PostFixed = true

	tests := []struct {
		name string
		doc  salience.Document
		want string
	}{
		{
			name: "single entity",
			doc:  doc([]salience.Token{tok("Paris", 5, 0, "LOCATION"), plain("is"), plain("nice")}),
			want: " [LOCATION]Paris[/LOCATION] is nice",
		},
		{
			name: "multi token span",
			doc:  doc([]salience.Token{tok("New", 2, 1, "LOCATION"), tok("York", 2, 1, "LOCATION"), plain("rocks")}),
			want: " [LOCATION]New York[/LOCATION] rocks",
		},
		{
			name: "adjacent different entities",
			doc:  doc([]salience.Token{tok("Jane", 1, 0, "PERSON"), tok("Acme", 3, 0, "COMPANY")}),
			want: " [PERSON]Jane[/PERSON] [COMPANY]Acme[/COMPANY]",
		},
		{
			name: "same primary different secondary",
			doc:  doc([]salience.Token{tok("A", 4, 0, "X"), tok("B", 4, 1, "X")}),
			want: " [X]A[/X] [X]B[/X]",
		},
		{
			name: "postfixed punctuation",
			doc:  doc([]salience.Token{plain("in"), tok("Paris", 5, 0, "LOCATION"), postfixed}),
			want: " in [LOCATION]Paris[/LOCATION].",
		},
		{
			name: "span open at end of document",
			doc:  doc([]salience.Token{plain("visit")}, []salience.Token{tok("Rome", 6, 0, "LOCATION")}),
			want: " visit [LOCATION]Rome[/LOCATION]",
		},
		{
			name: "span crosses sentences",
			doc:  doc([]salience.Token{tok("Acme", 3, 0, "COMPANY")}, []salience.Token{tok("Corp", 3, 0, "COMPANY")}),
			want: " [COMPANY]Acme Corp[/COMPANY]",
		},
		{
			name: "untagged only",
			doc:  doc([]salience.Token{plain("hello"), plain("world")}),
			want: " hello world",
		},
		{
			name: "empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Entity(tt.doc); got != tt.want {
				t.Errorf("Entity = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntity_Idempotent(t *testing.T) {
	d := doc([]salience.Token{
		tok("New", 2, 1, "LOCATION"), tok("York", 2, 1, "LOCATION"),
		plain("and"), tok("Jane", 1, 0, "PERSON"), plain("!"),
	})
	first := Entity(d)
	if second := Entity(d); first != second {
		t.Errorf("not idempotent: %q vs %q", first, second)
	}
}

func TestEntity_OneBracketPairPerRun(t *testing.T) {
	for n := 1; n <= 6; n++ {
		toks := make([]salience.Token, 0, n+2)
		toks = append(toks, plain("a"))
		for i := 0; i < n; i++ {
			toks = append(toks, tok("x", 9, 9, "T"))
		}
		toks = append(toks, plain("b"))

		got := Entity(doc(toks))
		if c := strings.Count(got, "[T]"); c != 1 {
			t.Errorf("run of %d: %d opening tags in %q", n, c, got)
		}
		if c := strings.Count(got, "[/T]"); c != 1 {
			t.Errorf("run of %d: %d closing tags in %q", n, c, got)
		}
		if strings.Index(got, "[T]") > strings.Index(got, "[/T]") {
			t.Errorf("run of %d: tags out of order in %q", n, got)
		}
	}
}

func TestPOS(t *testing.T) {
	dot := salience.Token{Text: ".", POSTag: ".", PostFixed: true}
	d := doc([]salience.Token{
		{Text: "Paris", POSTag: "NNP"},
		{Text: "shines", POSTag: "VBZ"},
		dot,
	})
	want := " [NNP]Paris[/NNP] [VBZ]shines[/VBZ][.].[/.]"
	if got := POS(d); got != want {
		t.Errorf("POS = %q, want %q", got, want)
	}
}

func TestSentimentTag(t *testing.T) {
	tests := []struct {
		name string
		tok  salience.Token
		want string
	}{
		{"none", salience.Token{SentimentType: salience.SentimentNone}, ""},
		{"stop", salience.Token{SentimentType: salience.SentimentStop}, "STOP"},
		{"possible", salience.Token{SentimentType: salience.SentimentPossible, Invert: true}, "POSSIBLE"},
		{"invert", salience.Token{SentimentType: salience.SentimentInternal, Invert: true}, "INVERT"},
		{"internal positive", salience.Token{SentimentType: salience.SentimentInternal, Sentiment: 0.5}, "INTERNAL_POSITIVE"},
		{"internal neutral", salience.Token{SentimentType: salience.SentimentInternal, Sentiment: 0}, "INTERNAL_NEUTRAL"},
		{"internal negative", salience.Token{SentimentType: salience.SentimentInternal, Sentiment: -0.5}, "INTERNAL_NEGATIVE"},
		{"boundary is neutral", salience.Token{SentimentType: salience.SentimentInternal, Sentiment: 0.3}, "INTERNAL_NEUTRAL"},
		{"handscored negative", salience.Token{SentimentType: salience.SentimentHandScored, Sentiment: -0.9}, "HANDSCORE_NEGATIVE"},
		{"handscored positive", salience.Token{SentimentType: salience.SentimentHandScored, Sentiment: 0.31}, "HANDSCORE_POSITIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SentimentTag(tt.tok, DefaultThresholds); got != tt.want {
				t.Errorf("SentimentTag = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentiment(t *testing.T) {
	pos := func(text string) salience.Token {
		return salience.Token{Text: text, SentimentType: salience.SentimentInternal, Sentiment: 0.8}
	}
	none := func(text string) salience.Token {
		return salience.Token{Text: text, SentimentType: salience.SentimentNone}
	}
	stop := salience.Token{Text: "!", SentimentType: salience.SentimentStop, PostFixed: true}

	tests := []struct {
		name string
		doc  salience.Document
		opts SentimentOptions
		want string
	}{
		{
			name: "merged run",
			doc:  doc([]salience.Token{none("a"), pos("really"), pos("great"), none("film"), stop}),
			want: " a [INTERNAL_POSITIVE]really great[/INTERNAL_POSITIVE] film[STOP]![/STOP]",
		},
		{
			name: "prefix",
			doc:  doc([]salience.Token{pos("great")}),
			opts: SentimentOptions{Prefix: "LXA_"},
			want: " [LXA_INTERNAL_POSITIVE]great[/LXA_INTERNAL_POSITIVE]",
		},
		{
			name: "custom thresholds",
			doc:  doc([]salience.Token{pos("great")}),
			opts: SentimentOptions{Thresholds: Thresholds{Negative: -0.9, Positive: 0.9}},
			want: " [INTERNAL_NEUTRAL]great[/INTERNAL_NEUTRAL]",
		},
		{
			name: "zero thresholds are kept",
			doc:  doc([]salience.Token{{Text: "fine", SentimentType: salience.SentimentInternal, Sentiment: 0.1}}),
			opts: SentimentOptions{},
			want: " [INTERNAL_POSITIVE]fine[/INTERNAL_POSITIVE]",
		},
		{
			name: "default thresholds",
			doc:  doc([]salience.Token{{Text: "fine", SentimentType: salience.SentimentInternal, Sentiment: 0.1}}),
			opts: DefaultSentimentOptions(),
			want: " [INTERNAL_NEUTRAL]fine[/INTERNAL_NEUTRAL]",
		},
		{
			name: "spans end with the sentence",
			doc:  doc([]salience.Token{pos("great")}, []salience.Token{pos("fun")}),
			want: " [INTERNAL_POSITIVE]great[/INTERNAL_POSITIVE] [INTERNAL_POSITIVE]fun[/INTERNAL_POSITIVE]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sentiment(tt.doc, tt.opts); got != tt.want {
				t.Errorf("Sentiment = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentiment_PolarSentence(t *testing.T) {
	d := salience.Document{Sentences: []salience.Sentence{
		{Polar: true, Tokens: []salience.Token{
			{Text: "love", SentimentType: salience.SentimentHandScored, Sentiment: 0.9},
			{Text: "it", SentimentType: salience.SentimentNone},
		}},
		{Tokens: []salience.Token{{Text: "ok", SentimentType: salience.SentimentNone}}},
	}}
	want := "[SENTENCE_POLAR] [HANDSCORE_POSITIVE]love[/HANDSCORE_POSITIVE] it[/SENTENCE_POLAR] ok"
	if got := Sentiment(d, SentimentOptions{}); got != want {
		t.Errorf("Sentiment = %q, want %q", got, want)
	}
}
