package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceOverlay_AtPosition(t *testing.T) {
	bg := strings.Join([]string{"..........", "..........", ".........."}, "\n")
	out := PlaceOverlay(2, 1, "ab\ncd", bg, false)
	assert.Equal(t, strings.Join([]string{"..........", "..ab......", "..cd......"}, "\n"), out)
}

func TestPlaceOverlay_Centered(t *testing.T) {
	bg := strings.Join([]string{"......", "......", "......"}, "\n")
	out := PlaceOverlay(0, 0, "xx", bg, true)
	assert.Equal(t, strings.Join([]string{"......", "..xx..", "......"}, "\n"), out)
}

func TestPlaceOverlay_ClipsAtEdges(t *testing.T) {
	bg := "....\n...."
	out := PlaceOverlay(2, 1, "wxyz\nmore", bg, false)
	assert.Equal(t, "....\n..wx", out)
}

func TestPlaceOverlay_PadsShortBackgroundLines(t *testing.T) {
	bg := "......\n.."
	out := PlaceOverlay(3, 1, "ab", bg, false)
	assert.Equal(t, "......\n.. ab ", out)
}
