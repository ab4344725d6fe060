package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnToA1(t *testing.T) {
	assert.Equal(t, "A", columnToA1(1))
	assert.Equal(t, "Z", columnToA1(26))
	assert.Equal(t, "AA", columnToA1(27))
	assert.Equal(t, "AJ", columnToA1(36))
	assert.Equal(t, "BA", columnToA1(53))
}

func TestToStringGrid(t *testing.T) {
	grid := toStringGrid([][]interface{}{{"A", "B"}, {"1", nil, 3.5}})
	assert.Equal(t, [][]string{{"A", "B"}, {"1", "", "3.5"}}, grid)
}
