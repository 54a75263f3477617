//go:build !windows

package stderr

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_ForwardsLines(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	c, err := Start(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})
	require.NoError(t, err)

	_, _ = os.Stderr.WriteString("ALSA lib pcm.c: underrun\n\n   \nsecond line\n")
	c.Stop()
	c.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ALSA lib pcm.c: underrun", "second line"}, lines)
}
