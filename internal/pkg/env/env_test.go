package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrecedence(t *testing.T) {
	old := Env
	defer func() { Env = old }()
	Env = map[string]string{"CARDINSA_TEST_KEY": "from-file"}

	assert.Equal(t, "from-file", GetEnv("CARDINSA_TEST_KEY", "fallback"))

	// process environment beats the .env file
	t.Setenv("CARDINSA_TEST_KEY", "from-os")
	assert.Equal(t, "from-os", GetEnv("CARDINSA_TEST_KEY", "fallback"))

	assert.Equal(t, "fallback", GetEnv("CARDINSA_MISSING_KEY", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	old := Env
	defer func() { Env = old }()

	tests := []struct {
		name string
		env  map[string]string
		want int
	}{
		{"unset falls back", map[string]string{}, 5},
		{"numeric value wins", map[string]string{"WORKER_COUNT": "12"}, 12},
		{"garbage falls back", map[string]string{"WORKER_COUNT": "dozens"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Env = tt.env
			assert.Equal(t, tt.want, GetEnvInt("WORKER_COUNT", 5))
		})
	}
}

func TestIsDev(t *testing.T) {
	old := Env
	defer func() { Env = old }()

	Env = map[string]string{}
	assert.False(t, IsDev())

	Env = map[string]string{"APP_ENV": "dev"}
	assert.True(t, IsDev())
}
