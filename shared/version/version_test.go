package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Ledgerxfr/0.1.0-0123456789ab "+runtime.Version()+". Built at: 2024-01-02T03:04:05Z",
		format("0123456789abcdef", "2024-01-02T03:04:05Z"))
	assert.Equal(t, "Ledgerxfr/0.1.0 "+runtime.Version(), format("", ""))
}

func TestVersionUsesLinkerValues(t *testing.T) {
	oldCommit, oldDate := gitCommit, buildDate
	t.Cleanup(func() { gitCommit, buildDate = oldCommit, oldDate })

	gitCommit, buildDate = "abc123", "2024-05-06"
	v := Version()
	assert.True(t, strings.HasPrefix(v, "Ledgerxfr/0.1.0-abc123 "))
	assert.True(t, strings.HasSuffix(v, "Built at: 2024-05-06"))
}
