package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{`"3s"`, 3 * time.Second, true},
		{`"250ms"`, 250 * time.Millisecond, true},
		{`1000000000`, time.Second, true},
		{`"soon"`, 0, false},
		{`true`, 0, false},
	}
	for _, tt := range tests {
		var d Duration
		err := json.Unmarshal([]byte(tt.in), &d)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.Duration, tt.in)
	}

	b, err := json.Marshal(Duration{2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(b))
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 300ms\nb: 2000000000\n"), &v))
	assert.Equal(t, 300*time.Millisecond, v.A.Duration)
	assert.Equal(t, 2*time.Second, v.B.Duration)

	require.Error(t, yaml.Unmarshal([]byte("a: later\n"), &v))

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: 300ms")
}
