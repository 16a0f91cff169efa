package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/callback"
	"github.com/wippyai/salience-go/option"
	"github.com/wippyai/salience-go/session"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(ctx context.Context, rt *session.Runtime) error {
			v, err := rt.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Print the engine's default install location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(ctx context.Context, rt *session.Runtime) error {
			loc, err := rt.DefaultLocation(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		})
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Dump the engine environment of an open session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *session.Session) error {
			env, err := s.DumpEnvironment(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env)
			return nil
		})
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the options a config file may set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tGROUP\tKIND")
		for _, d := range option.All() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Group, d.Kind)
		}
		return w.Flush()
	},
}

var analyzeFlags struct {
	scope     string
	themes    bool
	entities  bool
	sentiment bool
	summary   int
	json      bool
	progress  bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Prepare text and print the requested analyses",
	Long: `analyze prepares text read from a file, from stdin ("-" or no
argument) or from --text, then fetches the requested results. With no
result flags it prints themes, entities and sentiment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var markupFlags struct {
	scope string
	kind  string
}

var markupCmd = &cobra.Command{
	Use:   "markup [file|-]",
	Short: "Print the document with inline tags",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMarkup,
}

var (
	inlineText string
	colorFlag  string
)

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, markupCmd} {
		c.Flags().StringVarP(&inlineText, "text", "t", "", "analyze this text instead of a file")
		c.Flags().StringVar(&colorFlag, "color", "auto", "colorize output: auto, always or never")
	}

	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.scope, "scope", "", "configuration id to fetch from")
	f.BoolVar(&analyzeFlags.themes, "themes", false, "print themes")
	f.BoolVar(&analyzeFlags.entities, "entities", false, "print named entities")
	f.BoolVar(&analyzeFlags.sentiment, "sentiment", false, "print document sentiment")
	f.IntVar(&analyzeFlags.summary, "summary", 0, "print a summary of this many sentences")
	f.BoolVar(&analyzeFlags.json, "json", false, "print results as JSON")
	f.BoolVar(&analyzeFlags.progress, "progress", false, "print engine status messages to stderr")

	m := markupCmd.Flags()
	m.StringVar(&markupFlags.scope, "scope", "", "configuration id to fetch from")
	m.StringVarP(&markupFlags.kind, "kind", "k", "entity", "markup kind: entity, user, pos or sentiment")
}

// withRuntime loads the engine module named by the configuration.
func withRuntime(ctx context.Context, fn func(context.Context, *session.Runtime) error) (err error) {
	if cfg.Engine.Module == "" {
		return fmt.Errorf("no engine module: set --engine or [engine] module")
	}
	rt, err := session.LoadRuntime(ctx, cfg.Engine.Module, cfg.engineConfig())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rt.Close(ctx)) }()
	return fn(ctx, rt)
}

// withSession opens a session, adds the configured configurations and
// applies their scoped options.
func withSession(ctx context.Context, fn func(context.Context, *session.Session) error) error {
	scfg, err := cfg.sessionConfig()
	if err != nil {
		return err
	}
	_, scoped, err := cfg.settings()
	if err != nil {
		return err
	}
	return withRuntime(ctx, func(ctx context.Context, rt *session.Runtime) (err error) {
		s, err := rt.Open(ctx, scfg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, s.Close(ctx)) }()

		for _, c := range cfg.Configurations {
			if _, err := s.AddConfiguration(ctx, c.UserDir, c.ID); err != nil {
				return err
			}
		}
		for _, st := range scoped {
			if err := s.In(st.scope).SetOption(ctx, st.ID, st.Value); err != nil {
				return err
			}
		}
		return fn(ctx, s)
	})
}

// readInput returns --text, the named file, or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if inlineText != "" {
		return inlineText, nil
	}
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

type analysis struct {
	Themes    []salience.Theme    `json:"themes,omitempty"`
	Entities  []salience.Entity   `json:"entities,omitempty"`
	Sentiment *salience.Sentiment `json:"sentiment,omitempty"`
	Summary   *salience.Summary   `json:"summary,omitempty"`
	Partial   bool                `json:"partial,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	f := analyzeFlags
	if !f.themes && !f.entities && !f.sentiment && f.summary == 0 {
		f.themes, f.entities, f.sentiment = true, true, true
	}

	ctx := cmd.Context()
	if f.progress {
		ctx = callback.WithHandler(ctx, func(_ context.Context, n callback.Notification) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d] %s\n", n.Status, n.Message)
		})
	}

	return withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if err := s.PrepareText(ctx, text); err != nil {
			return err
		}
		partial := s.LastStatus().Partial()
		sc := s.In(f.scope)

		var res analysis
		if f.themes {
			if res.Themes, err = sc.Themes(ctx); err != nil {
				return err
			}
			partial = partial || s.LastStatus().Partial()
		}
		if f.entities {
			if res.Entities, err = sc.NamedEntities(ctx); err != nil {
				return err
			}
			partial = partial || s.LastStatus().Partial()
		}
		if f.sentiment {
			st, err := sc.Sentiment(ctx, false)
			if err != nil {
				return err
			}
			res.Sentiment = &st
			partial = partial || s.LastStatus().Partial()
		}
		if f.summary > 0 {
			sum, err := sc.Summary(ctx, f.summary)
			if err != nil {
				return err
			}
			res.Summary = &sum
			partial = partial || s.LastStatus().Partial()
		}
		res.Partial = partial
		if partial {
			log.Warn("engine reported partial results")
		}

		out := cmd.OutOrStdout()
		if f.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		color, err := wantColor(colorFlag, cfg.Markup.Color, out)
		if err != nil {
			return err
		}
		printAnalysis(out, newPalette(out, color), res)
		return nil
	})
}

func printAnalysis(out io.Writer, p palette, res analysis) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if len(res.Themes) > 0 {
		fmt.Fprintln(w, p.header.Render("Themes"))
		for _, t := range res.Themes {
			fmt.Fprintf(w, "  %s\t%.3f\t%+.3f\n", t.Normalized, t.Score, t.Sentiment)
		}
	}
	if len(res.Entities) > 0 {
		fmt.Fprintln(w, p.header.Render("Entities"))
		for _, e := range res.Entities {
			fmt.Fprintf(w, "  %s\t%s\t%d\t%+.3f\n", e.NormalizedForm, e.Type, e.Count, e.SentimentScore)
		}
	}
	if res.Sentiment != nil {
		fmt.Fprintln(w, p.header.Render("Sentiment"))
		fmt.Fprintf(w, "  score\t%+.3f\n", res.Sentiment.Score)
		for _, p := range res.Sentiment.Phrases {
			fmt.Fprintf(w, "  %s\t%+.3f\n", p.Phrase.Text, p.Score)
		}
	}
	if res.Summary != nil {
		fmt.Fprintln(w, p.header.Render("Summary"))
		fmt.Fprintf(w, "  %s\n", strings.TrimSpace(res.Summary.Summary))
	}
}

func runMarkup(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	color, err := wantColor(colorFlag, cfg.Markup.Color, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	p := newPalette(cmd.OutOrStdout(), color)
	return withSession(cmd.Context(), func(ctx context.Context, s *session.Session) error {
		if err := s.PrepareText(ctx, text); err != nil {
			return err
		}
		sc := s.In(markupFlags.scope)

		var out string
		switch markupFlags.kind {
		case "entity", "named":
			out, err = sc.NamedEntityMarkup(ctx)
		case "user":
			out, err = sc.UserEntityMarkup(ctx)
		case "pos":
			out, err = sc.POSMarkup(ctx)
		case "sentiment":
			out, err = sc.SentimentMarkup(ctx, cfg.sentimentOptions())
		default:
			return fmt.Errorf("unknown markup kind %q", markupFlags.kind)
		}
		if err != nil {
			return err
		}
		log.Debug("markup rendered", zap.String("kind", markupFlags.kind), zap.Int("bytes", len(out)))
		if color {
			out = p.colorize(out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(out))
		return nil
	})
}
