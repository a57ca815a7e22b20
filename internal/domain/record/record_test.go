package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthOf(t *testing.T) {
	assert.Equal(t, int16(1), GrowthOf(0.001))
	assert.Equal(t, int16(-1), GrowthOf(-0.001))
	assert.Equal(t, int16(0), GrowthOf(0))
}
