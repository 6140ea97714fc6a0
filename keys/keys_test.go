package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalKeyStringsMap_EveryKeyHasBinding(t *testing.T) {
	for str, name := range GlobalKeyStringsMap {
		binding, ok := GlobalkeyBindings[name]
		if !assert.True(t, ok, "no binding for %q", str) {
			continue
		}
		assert.Contains(t, binding.Keys(), str, "binding for %q does not list the key", str)
	}
}

func TestSpaceTogglesInactiveSection(t *testing.T) {
	name, ok := GlobalKeyStringsMap[" "]
	assert.True(t, ok)
	assert.Equal(t, KeySpaceToggle, name)
	assert.Equal(t, "toggle inactive", GlobalkeyBindings[KeySpaceToggle].Help().Desc)
}

func TestMoveKeysHaveShiftAliases(t *testing.T) {
	assert.Equal(t, KeyMoveUp, GlobalKeyStringsMap["shift+up"])
	assert.Equal(t, KeyMoveUp, GlobalKeyStringsMap["K"])
	assert.Equal(t, KeyMoveDown, GlobalKeyStringsMap["shift+down"])
	assert.Equal(t, KeyMoveDown, GlobalKeyStringsMap["J"])
}

func TestGlobalKeyBindings_StatusLineLabels(t *testing.T) {
	if got := GlobalkeyBindings[KeyEnter].Help().Desc; got != "select" {
		t.Fatalf("KeyEnter help desc = %q, want %q", got, "select")
	}
	if got := GlobalkeyBindings[KeyCloseInactive].Help().Desc; got != "close inactive" {
		t.Fatalf("KeyCloseInactive help desc = %q, want %q", got, "close inactive")
	}
}
