package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	require.Equal(t, "markupdown dev", String())

	oldCommit, oldTime := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = oldCommit, oldTime })
	GitCommit, BuildTime = "abc123", "2026-01-02"
	require.Equal(t, "markupdown dev (abc123, built 2026-01-02)", String())
}
