package reembed

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reports splits tracker output into the lines it refreshed.
func reports(buf *bytes.Buffer) []string {
	var out []string
	for _, line := range strings.Split(buf.String(), "\r") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		updates  []int
		want     []string
	}{
		{
			name:     "every tenth",
			interval: 10,
			updates:  []int{5, 10, 15, 20, 21},
			want:     []string{"10/50", "20/50"},
		},
		{
			name:     "non-positive interval reports every change",
			interval: 0,
			updates:  []int{1, 2},
			want:     []string{"1/50", "2/50"},
		},
		{
			name:     "progress is capped at total",
			interval: 10,
			updates:  []int{80},
			want:     []string{"50/50"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tracker := NewProgressTracker(&buf, 50, tt.interval)
			tracker.Start()
			for _, u := range tt.updates {
				tracker.Update(u)
			}

			got := reports(&buf)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Contains(t, got[i], w)
			}
		})
	}
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Update(5)
	tracker.Increment(1)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 5000, 1000)
	tracker.Start()
	tracker.Update(2500)
	tracker.Finish()

	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	got := reports(&buf)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "Reembedded: 2500/5000 (50.0%)"), got[0])
	assert.True(t, strings.HasPrefix(got[1], "Reembedded: 5000/5000 (100.0%)"), got[1])
	assert.Contains(t, got[1], "questions/s")
}

func TestProgressTracker_StartResets(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()
	tracker.Update(5)

	buf.Reset()
	tracker.Start()
	tracker.Update(4)
	assert.Empty(t, buf.String(), "counter restarted from zero")
	tracker.Increment(1)
	assert.Contains(t, buf.String(), "5/10")
}

func TestProgressTracker_ConcurrentIncrements(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)
	tracker.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tracker.Increment(1)
			}
		}()
	}
	wg.Wait()

	got := reports(&buf)
	require.NotEmpty(t, got)
	assert.Contains(t, got[len(got)-1], "100/100")
}

func TestProgressTracker_NilWriter(t *testing.T) {
	tracker := NewProgressTracker(nil, 10, 0)
	tracker.Start()
	tracker.Increment(5)
	tracker.Finish()
	time.Sleep(time.Millisecond)
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}
