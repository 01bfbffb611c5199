package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 200*time.Millisecond, c.PollInterval)
	assert.False(t, c.Plain)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_addr": "carnet:50051",
		"online_check_interval": "10s",
		"plain": true
	}`), 0o600))

	tests := []struct {
		name string
		args []string
		want func(c *Config)
	}{
		{name: "defaults", args: nil, want: func(c *Config) {}},
		{
			name: "json",
			args: []string{"-c", path},
			want: func(c *Config) {
				c.ServerEndpointAddr = "carnet:50051"
				c.OnlineCheckInterval = 10 * time.Second
				c.Plain = true
			},
		},
		{
			name: "flags override json",
			args: []string{"-config", path, "-a", "localhost:1", "-poll", "50ms", "-plain=false", "-unknown", "x"},
			want: func(c *Config) {
				c.ServerEndpointAddr = "localhost:1"
				c.OnlineCheckInterval = 10 * time.Second
				c.PollInterval = 50 * time.Millisecond
				c.Plain = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(tt.args)
			require.NoError(t, err)

			want := &Config{}
			want.LoadDefaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	_, err := load([]string{"-c", bad})
	assert.Error(t, err)

	_, err = load([]string{"-c", filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	_, err = load([]string{"-i", "often"})
	assert.Error(t, err)
}
