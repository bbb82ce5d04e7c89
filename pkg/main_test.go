package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSweepIntervalFallback(t *testing.T) {
	assert.Equal(t, "@every 10s", sweepInterval("@every 10s"))
	assert.Equal(t, "*/30 * * * *", sweepInterval("*/30 * * * *"))

	assert.Equal(t, "@every 30s", sweepInterval(""))
	assert.Equal(t, "@every 30s", sweepInterval("whenever"))
}
