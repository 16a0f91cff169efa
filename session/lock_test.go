package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/engine/enginetest"
	"github.com/wippyai/salience-go/option"
)

func TestSessions_ShareEngine(t *testing.T) {
	ctx := context.Background()
	e, _ := newFake()
	e.RequireLock()
	e.Result(engine.GetThemes, func(tr *enginetest.Tree, desc uint32) {
		tr.ThemeList(desc, []salience.Theme{{Theme: "Outlook", Score: 0.3}})
	})

	sessions := make([]*Session, 2)
	for i := range sessions {
		s, err := Open(ctx, e, testConfig())
		if err != nil {
			t.Fatalf("Open %d: %v", i, err)
		}
		sessions[i] = s
	}

	const rounds = 50
	var wg sync.WaitGroup
	errs := make(chan error, len(sessions)*rounds)
	for i, s := range sessions {
		wg.Add(1)
		go func(i int, s *Session) {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				if err := s.PrepareText(ctx, fmt.Sprintf("document %d.%d", i, j)); err != nil {
					errs <- err
					return
				}
				themes, err := s.Themes(ctx)
				if err != nil {
					errs <- err
					return
				}
				if len(themes) != 1 || themes[0].Theme != "Outlook" {
					errs <- fmt.Errorf("session %d: themes = %+v", i, themes)
					return
				}
				if err := s.SetOption(ctx, option.EntityThreshold, option.Int(j)); err != nil {
					errs <- err
					return
				}
				if _, err := s.LastWarnings(ctx); err != nil {
					errs <- err
					return
				}
			}
		}(i, s)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			t.Errorf("Close: %v", err)
		}
	}
	if n := e.Unguarded(); n != 0 {
		t.Errorf("%d engine calls or allocations ran without the operation lock", n)
	}
	if n := e.Outstanding(); n != 0 {
		t.Errorf("outstanding engine allocations = %d", n)
	}
	if n := e.Arena().Live(); n != 0 {
		t.Errorf("live arena blocks = %d", n)
	}
}

func TestVersion_HoldsLock(t *testing.T) {
	e, _ := newFake()
	e.RequireLock()
	if _, err := Version(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if _, err := DefaultLocation(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if n := e.Unguarded(); n != 0 {
		t.Errorf("%d unguarded engine calls", n)
	}
}
