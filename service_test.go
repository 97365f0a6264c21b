package rotlog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestService_Inactive(t *testing.T) {
	svc := NewService()
	assert.False(t, svc.IsActive())
	assert.Equal(t, LevelNone, svc.Level())
	assert.False(t, svc.IsEnabled(LevelNone))
	assert.Empty(t, svc.FileName())

	assert.NoError(t, svc.Info("nowhere"))
	assert.NoError(t, svc.Logf(LevelError, "nowhere %d", 1))
	assert.NoError(t, svc.SetLevel(LevelDebug))
	assert.NoError(t, svc.StopLogging())
	assert.NoError(t, svc.Close())
}

func TestService_StartLogging(t *testing.T) {
	svc := NewService()
	cfg := testConfig(t, "app.log", LevelInfo)
	require.NoError(t, svc.StartLogging(cfg))

	assert.True(t, svc.IsActive())
	assert.Equal(t, LevelInfo, svc.Level())
	assert.Equal(t, cfg.FileName, svc.FileName())
	assert.True(t, svc.IsEnabled(LevelWarning))
	assert.False(t, svc.IsEnabled(LevelDebug))

	require.NoError(t, svc.Debug("d"))
	require.NoError(t, svc.Info("i"))
	require.NoError(t, svc.Warning("w"))
	require.NoError(t, svc.Error("e"))
	require.NoError(t, svc.Critical("c"))
	require.NoError(t, svc.Trace("t"))
	require.NoError(t, svc.Infof("n=%d", 3))
	require.NoError(t, svc.Debugf("n=%d", 4))
	require.NoError(t, svc.StopLogging())
	assert.False(t, svc.IsActive())

	assert.Equal(t, []string{
		"[TRACE] starting logging at level INFO",
		"[INFO] i",
		"[WARN] w",
		"[ERROR] e",
		"[CRIT] c",
		"[TRACE] t",
		"[INFO] n=3",
		"[TRACE] ending logging",
	}, readLines(t, cfg.FileName))
}

func TestService_RestartReplacesDefault(t *testing.T) {
	svc := NewService()
	first := testConfig(t, "first.log", LevelInfo)
	second := testConfig(t, "second.log", LevelInfo)
	require.NoError(t, svc.StartLogging(first))
	require.NoError(t, svc.StartLogging(second))
	require.NoError(t, svc.Info("to second"))
	require.NoError(t, svc.Close())

	assert.Equal(t, []string{
		"[TRACE] starting logging at level INFO",
		"[TRACE] ending logging",
	}, readLines(t, first.FileName))
	assert.Contains(t, readLines(t, second.FileName), "[INFO] to second")
}

func TestService_FailedStartKeepsPreviousDefault(t *testing.T) {
	svc := NewService()
	cfg := testConfig(t, "app.log", LevelInfo)
	require.NoError(t, svc.StartLogging(cfg))
	t.Cleanup(func() { _ = svc.Close() })

	bad := cfg
	bad.FileName = ""
	require.Error(t, svc.StartLogging(bad))
	assert.Equal(t, cfg.FileName, svc.FileName())
}

func TestService_ContextOverrides(t *testing.T) {
	svc := NewService()
	global := testConfig(t, "global.log", LevelDebug)
	global.Prefix = "%i"
	require.NoError(t, svc.StartLogging(global))
	t.Cleanup(func() { _ = svc.Close() })

	task := testConfig(t, "task.log", LevelWarning)
	task.Prefix = "%i"
	task.MaxFiles = 1
	require.NoError(t, svc.StartLoggingForContext(7, task))

	job := svc.Context(7)
	other := svc.Context(8)
	assert.Equal(t, ContextID(7), job.ID())
	assert.Equal(t, LevelWarning, job.Level())
	assert.Equal(t, LevelDebug, other.Level())
	assert.Equal(t, task.FileName, job.FileName())

	require.NoError(t, job.Info("filtered by override"))
	require.NoError(t, job.Warning("to task"))
	require.NoError(t, other.Info("to global"))
	require.NoError(t, svc.Info("global again"))

	require.NoError(t, svc.StopLoggingForContext(7))
	require.NoError(t, job.Info("after stop"))
	require.NoError(t, svc.StopLoggingForContext(7))

	assert.Equal(t, []string{
		"00007 starting logging at level WARN",
		"00007 to task",
		"00007 ending logging",
	}, readLines(t, task.FileName))

	assert.Equal(t, []string{
		"00000 starting logging at level DEBUG",
		"00000 starting logging for context 7",
		"00000     fileName => " + task.FileName,
		"00000     level => 30",
		"00000     maxFiles => 1",
		"00000     maxFileSize => 1048576",
		"00008 to global",
		"00000 global again",
		"00000 stopping logging for context 7",
		"00007 after stop",
		"00000 tried to stop logging without starting first",
	}, readLines(t, global.FileName))
}

func TestService_StartLoggingForContextErrors(t *testing.T) {
	svc := NewService()

	err := svc.StartLoggingForContext(NoContext, testConfig(t, "a.log", LevelInfo))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	bad := testConfig(t, "a.log", LevelInfo)
	bad.MaxFiles = -1
	err = svc.StartLoggingForContext(3, bad)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Empty(t, svc.Registry().Contexts())
}

func TestService_FromContext(t *testing.T) {
	svc := NewService()
	buf := &bytes.Buffer{}
	require.NoError(t, svc.StartLoggingToStream(buf, LevelInfo, "%i"))

	ctx := WithContextID(context.Background(), 12)
	require.NoError(t, svc.FromContext(ctx).Info("hello"))
	require.NoError(t, svc.FromContext(context.Background()).Info("plain"))

	assert.Equal(t, "00012 hello\n00000 plain\n", buf.String())
	assert.Same(t, svc.ContextLogger, svc.Context(NoContext))
}

func TestService_LogErr(t *testing.T) {
	svc := NewService()
	buf := &bytes.Buffer{}
	require.NoError(t, svc.StartLoggingToStream(buf, LevelInfo, ""))

	inner := fmt.Errorf("disk full")
	outer := fmt.Errorf("flush failed: %w", inner)
	require.NoError(t, svc.LogErr(LevelError, "write", outer))
	require.NoError(t, svc.LogErr(LevelError, "no error", nil))
	require.NoError(t, svc.LogErr(LevelError, "", inner))

	assert.Equal(t, "write: flush failed: disk full -> disk full\nno error\ndisk full\n", buf.String())
}

func TestService_StartLoggingFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.log")

	t.Run("complete", func(t *testing.T) {
		t.Setenv(EnvFileName, path)
		t.Setenv(EnvLevel, "warning")
		t.Setenv(EnvMaxFiles, "3")
		t.Setenv(EnvMaxFileSize, "2048")
		t.Setenv(EnvPrefix, "%l")
		t.Setenv(EnvReuseExistingFiles, "true")
		t.Setenv(EnvRotate, "true")

		svc := NewService()
		require.NoError(t, svc.StartLoggingFromEnvironment())
		assert.Equal(t, LevelWarning, svc.Level())
		assert.Equal(t, filepath.Join(dir, "env.1.log"), svc.FileName())
		require.NoError(t, svc.Close())
	})

	t.Run("missing level", func(t *testing.T) {
		t.Setenv(EnvFileName, path)
		os.Unsetenv(EnvLevel)

		svc := NewService()
		err := svc.StartLoggingFromEnvironment()
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.False(t, svc.IsActive())
	})

	t.Run("bad level", func(t *testing.T) {
		t.Setenv(EnvFileName, path)
		t.Setenv(EnvLevel, "loud")

		err := NewService().StartLoggingFromEnvironment()
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestService_ConcurrentWritersDoNotTearLines(t *testing.T) {
	svc := NewService()
	cfg := testConfig(t, "app.log", LevelDebug)
	cfg.Prefix = "%i"
	require.NoError(t, svc.StartLogging(cfg))

	const workers, perWorker = 8, 200
	var g errgroup.Group
	for w := 1; w <= workers; w++ {
		cl := svc.Context(ContextID(w))
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				if err := cl.Infof("worker=%d seq=%d %s", cl.ID(), i, strings.Repeat("z", 50)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, svc.Close())

	lines := readLines(t, cfg.FileName)
	require.Len(t, lines, workers*perWorker+2)

	next := make(map[string]int)
	for _, line := range lines[1 : len(lines)-1] {
		var id ContextID
		var worker, seq int
		var tail string
		_, err := fmt.Sscanf(line, "%d worker=%d seq=%d %s", &id, &worker, &seq, &tail)
		require.NoError(t, err, line)
		assert.Equal(t, int(id), worker)
		assert.Equal(t, strings.Repeat("z", 50), tail)

		key := fmt.Sprint(worker)
		assert.Equal(t, next[key], seq, "lines of one writer stay in order")
		next[key] = seq + 1
	}
}

func TestService_SwapWaitsForInFlightWrites(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.StartLogging(testConfig(t, "a.log", LevelDebug)))

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if err := svc.Info("msg"); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.StartLogging(testConfig(t, fmt.Sprintf("b%d.log", i), LevelDebug)))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err, "a write never observes a closed default")
	}
	require.NoError(t, svc.Close())
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := Default()
	svc := NewService()
	SetDefault(svc)
	t.Cleanup(func() { SetDefault(prev) })

	SetDefault(nil)
	assert.Same(t, svc, Default())

	cfg := testConfig(t, "pkg.log", LevelInfo)
	cfg.Prefix = ""
	require.NoError(t, StartLogging(cfg))
	assert.True(t, IsLoggingStarted())
	assert.Equal(t, LevelInfo, LoggingLevel())

	require.NoError(t, Info("a"))
	require.NoError(t, Logf(LevelError, "b%d", 1))
	require.NoError(t, SetLoggingLevel(LevelError))
	require.NoError(t, Warning("dropped"))
	require.NoError(t, Critical("c"))

	other := testConfig(t, "ctx.log", LevelDebug)
	require.NoError(t, StartLoggingForContext(4, other))
	require.NoError(t, FromContext(WithContextID(context.Background(), 4)).Debug("ctx"))
	require.NoError(t, StopLoggingForContext(4))

	require.NoError(t, StopLogging())
	assert.False(t, IsLoggingStarted())
	assert.Equal(t, LevelNone, LoggingLevel())

	lines := readLines(t, cfg.FileName)
	assert.Equal(t, "starting logging at level INFO", lines[0])
	assert.Contains(t, lines, "a")
	assert.Contains(t, lines, "b1")
	assert.Contains(t, lines, "switched logging level from INFO to ERROR")
	assert.Contains(t, lines, "c")
	assert.NotContains(t, lines, "dropped")
	assert.Equal(t, "ending logging", lines[len(lines)-1])

	assert.Contains(t, readLines(t, other.FileName), "[DEBUG] ctx")
}

// swapOnFormat restarts the default state from inside String, while Logf is
// formatting.
type swapOnFormat struct {
	svc *Service
	cfg Config
}

func (s swapOnFormat) String() string {
	_ = s.svc.Info("from stringer")
	done := make(chan error, 1)
	go func() { done <- s.svc.StartLogging(s.cfg) }()
	select {
	case err := <-done:
		if err != nil {
			return "swap failed"
		}
		return "swapped"
	case <-time.After(2 * time.Second):
		return "swap blocked"
	}
}

func TestService_LogfFormatsOutsideLock(t *testing.T) {
	first := testConfig(t, "first.log", LevelDebug)
	second := testConfig(t, "second.log", LevelDebug)
	first.Prefix, second.Prefix = "", ""

	svc := NewService()
	require.NoError(t, svc.StartLogging(first))
	require.NoError(t, svc.Infof("%s", swapOnFormat{svc: svc, cfg: second}))
	require.NoError(t, svc.Close())

	assert.Contains(t, readLines(t, first.FileName), "from stringer")
	assert.Contains(t, readLines(t, second.FileName), "swapped")
}

func TestPackageLevelStartLoggingToStream(t *testing.T) {
	prev := Default()
	SetDefault(NewService())
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, StartLoggingToStream(&buf, LevelInfo, ""))
	require.NoError(t, Debug("hidden"))
	require.NoError(t, Info("shown"))
	require.NoError(t, Trace("traced"))
	require.NoError(t, StopLogging())

	out := buf.String()
	assert.Contains(t, out, "shown\n")
	assert.Contains(t, out, "traced\n")
	assert.NotContains(t, out, "hidden")

	err := StartLoggingToStream(nil, LevelInfo, "")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
