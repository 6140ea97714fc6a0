package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitHeight(t *testing.T) {
	assert.Equal(t, 5, strings.Count(FitHeight("a\nb", 6), "\n"))
	assert.Equal(t, "a\nb", FitHeight("a\nb\nc\nd", 2))
	assert.Equal(t, "a", FitHeight("a", 0))
}
