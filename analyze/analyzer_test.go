package analyze

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/topicscan/matcher"
	"github.com/poiesic/topicscan/similarity"
	"github.com/poiesic/topicscan/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matcherFunc adapts a function to TopicMatcher.
type matcherFunc func(ctx context.Context, text, topic string) (bool, error)

func (f matcherFunc) ContainsTopic(ctx context.Context, text, topic string) (bool, error) {
	return f(ctx, text, topic)
}

// recordingMonitor collects hook calls.
type recordingMonitor struct {
	mu       sync.Mutex
	started  bool
	matched  map[int]string
	rejected map[int]string
	finished []string
	err      error
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{matched: map[int]string{}, rejected: map[int]string{}}
}

func (r *recordingMonitor) Start(_ string, _ []string) { r.started = true }

func (r *recordingMonitor) TopicMatched(i int, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matched[i] = topic
}

func (r *recordingMonitor) TopicRejected(i int, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[i] = topic
}

func (r *recordingMonitor) Finish(matched []string, err error) {
	r.finished = matched
	r.err = err
}

func newExactAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	m, err := matcher.New(tokenize.NewSplitter(), similarity.Exact(), 0.7)
	require.NoError(t, err)
	a, err := NewAnalyzer(m, opts...)
	require.NoError(t, err)
	t.Cleanup(a.Release)
	return a
}

func TestNewAnalyzer(t *testing.T) {
	t.Run("nil matcher", func(t *testing.T) {
		_, err := NewAnalyzer(nil)
		assert.Equal(t, ErrMatcherRequired, err)
	})

	t.Run("with pool size", func(t *testing.T) {
		a := newExactAnalyzer(t, WithPoolSize(4))
		assert.Equal(t, 4, a.pool.Cap())
	})

	t.Run("with pool size zero defaults to 1", func(t *testing.T) {
		a := newExactAnalyzer(t, WithPoolSize(0))
		assert.Equal(t, 1, a.pool.Cap())
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		a := newExactAnalyzer(t, WithLogger(nil))
		assert.NotNil(t, a.logger)
	})

	t.Run("failing option releases pool", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewAnalyzer(matcherFunc(nil), func(*Analyzer) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := newExactAnalyzer(t, WithPoolSize(3))
	ctx := context.Background()

	t.Run("keeps matching topics in input order", func(t *testing.T) {
		topics := []string{"lazy dog", "brown fox", "purple cat", "quick", "fox brown"}
		got, err := a.Analyze(ctx, "The quick brown fox jumps over the lazy dog", topics)
		require.NoError(t, err)
		assert.Equal(t, []string{"lazy dog", "brown fox", "quick"}, got)
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		got, err := a.Analyze(ctx, "кошка сидит на окне", []string{"кошка", "собака", "кошка"})
		require.NoError(t, err)
		assert.Equal(t, []string{"кошка", "кошка"}, got)
	})

	t.Run("empty topics are dropped", func(t *testing.T) {
		got, err := a.Analyze(ctx, "hello world", []string{"", "...", "world"})
		require.NoError(t, err)
		assert.Equal(t, []string{"world"}, got)
	})

	t.Run("no topics", func(t *testing.T) {
		got, err := a.Analyze(ctx, "hello world", nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty text", func(t *testing.T) {
		got, err := a.Analyze(ctx, "", []string{"hello"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("many topics", func(t *testing.T) {
		topics := make([]string, 200)
		var want []string
		for i := range topics {
			if i%2 == 0 {
				topics[i] = "alpha"
				want = append(want, "alpha")
			} else {
				topics[i] = "omega"
			}
		}
		got, err := a.Analyze(ctx, "alpha beta gamma", topics)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestAnalyzer_MatcherError(t *testing.T) {
	boom := errors.New("tokenizer rejected input")
	m := matcherFunc(func(_ context.Context, _, topic string) (bool, error) {
		if topic == "bad" {
			return false, boom
		}
		return true, nil
	})
	a, err := NewAnalyzer(m, WithPoolSize(2))
	require.NoError(t, err)
	defer a.Release()

	got, err := a.Analyze(context.Background(), "text", []string{"ok", "bad", "ok"})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestAnalyzer_InvalidUTF8(t *testing.T) {
	a := newExactAnalyzer(t)
	_, err := a.Analyze(context.Background(), "bad \xff text", []string{"text"})
	assert.ErrorIs(t, err, tokenize.ErrInvalidText)
}

func TestAnalyzer_Cancellation(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		var calls atomic.Int32
		m := matcherFunc(func(context.Context, string, string) (bool, error) {
			calls.Add(1)
			return true, nil
		})
		a, err := NewAnalyzer(m)
		require.NoError(t, err)
		defer a.Release()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = a.Analyze(ctx, "text", []string{"a", "b"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("cancelled midway", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m := matcherFunc(func(_ context.Context, _, topic string) (bool, error) {
			if topic == "stop" {
				cancel()
			}
			return true, nil
		})
		a, err := NewAnalyzer(m, WithPoolSize(1))
		require.NoError(t, err)
		defer a.Release()

		_, err = a.Analyze(ctx, "text", []string{"a", "stop", "b", "c"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAnalyzer_Monitor(t *testing.T) {
	a := newExactAnalyzer(t)
	monitor := newRecordingMonitor()

	got, err := a.AnalyzeWithMonitor(context.Background(), "one two three", []string{"two", "four", "three"}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, map[int]string{0: "two", 2: "three"}, monitor.matched)
	assert.Equal(t, map[int]string{1: "four"}, monitor.rejected)
	assert.Equal(t, got, monitor.finished)
	assert.NoError(t, monitor.err)
}

func TestAnalyzer_MonitorSeesError(t *testing.T) {
	a := newExactAnalyzer(t)
	monitor := newRecordingMonitor()

	_, err := a.AnalyzeWithMonitor(context.Background(), "\xff", []string{"x"}, monitor)
	require.Error(t, err)
	assert.ErrorIs(t, monitor.err, tokenize.ErrInvalidText)
	assert.Nil(t, monitor.finished)
}

func TestAnalyzer_Logging(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := newExactAnalyzer(t, WithLogger(logger))

	_, err := a.Analyze(context.Background(), "one two", []string{"two"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "component=analyzer")
	assert.Contains(t, buf.String(), "analysis complete")
}
