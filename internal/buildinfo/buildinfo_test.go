package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	old := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = old })

	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Equal(t, "Build version: 1.2.3\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
}
