package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	log, err := New(Config{Level: "debug", Development: true, OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(Config{Level: "shouting", OutputPaths: []string{"stdout"}})
	assert.Error(t, err)
}

func TestNopAndNamed(t *testing.T) {
	log := Nop()
	child := log.Named("child")
	assert.NotNil(t, child)
	child.Info("discarded")
}

func TestWithStaysWrapped(t *testing.T) {
	// Named and With chain without falling back to the embedded zap type.
	var log *Logger = Nop().Named("session").With(zap.String("owner", "own_x"))
	assert.NotNil(t, log)
	log.Info("discarded")
}
