package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestInitialState(t *testing.T) {
	s := Initial()
	assert.Equal(t, ViewGrid, s.ViewMode)
	assert.False(t, s.WholesaleMode)
	assert.False(t, s.BarcodeMode)
	assert.False(t, s.QuickAddMode)
	assert.False(t, s.PerformanceMode)
	assert.False(t, s.CartOpen)
	assert.False(t, s.CartFullscreen)
	assert.False(t, s.CartCollapsed)
}

func TestTogglesRoundTrip(t *testing.T) {
	toggles := []struct {
		action Action
		read   func(State) bool
	}{
		{ToggleWholesale, func(s State) bool { return s.WholesaleMode }},
		{ToggleBarcode, func(s State) bool { return s.BarcodeMode }},
		{ToggleQuickAdd, func(s State) bool { return s.QuickAddMode }},
		{TogglePerformance, func(s State) bool { return s.PerformanceMode }},
		{ToggleCart, func(s State) bool { return s.CartOpen }},
		{ToggleCartFullscreen, func(s State) bool { return s.CartFullscreen }},
		{ToggleCartCollapsed, func(s State) bool { return s.CartCollapsed }},
	}

	for _, tc := range toggles {
		s := Initial()
		s = Apply(s, tc.action, t0)
		assert.True(t, tc.read(s), "action %v should set its flag", tc.action)
		s = Apply(s, tc.action, t0)
		assert.False(t, tc.read(s), "action %v should clear its flag", tc.action)
	}
}

func TestToggleViewAlternates(t *testing.T) {
	s := Initial()
	s = Apply(s, ToggleView, t0)
	assert.Equal(t, ViewList, s.ViewMode)
	s = Apply(s, ToggleView, t0)
	assert.Equal(t, ViewGrid, s.ViewMode)
}

func TestOpenCloseCart(t *testing.T) {
	s := Apply(Initial(), OpenCart, t0)
	assert.True(t, s.CartOpen)
	s = Apply(s, OpenCart, t0)
	assert.True(t, s.CartOpen)
	s = Apply(s, CloseCart, t0)
	assert.False(t, s.CartOpen)
}

func TestEveryActionStampsActivity(t *testing.T) {
	s := Apply(Initial(), MarkActivity, t0)
	assert.Equal(t, t0, s.LastActivity)

	later := t0.Add(time.Minute)
	s = Apply(s, ToggleCart, later)
	assert.Equal(t, later, s.LastActivity)
}

func TestResetRestoresInitial(t *testing.T) {
	s := Initial()
	s = Apply(s, ToggleWholesale, t0)
	s = Apply(s, ToggleView, t0)
	s = Apply(s, ToggleCartFullscreen, t0)

	s = Apply(s, Reset, t0.Add(time.Hour))
	assert.Equal(t, ViewGrid, s.ViewMode)
	assert.False(t, s.WholesaleMode)
	assert.False(t, s.CartFullscreen)
	assert.Equal(t, t0.Add(time.Hour), s.LastActivity)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := Initial()
	_ = Apply(s, ToggleWholesale, t0)
	assert.False(t, s.WholesaleMode)
}

func TestMirrorAndApplyFlags(t *testing.T) {
	s := Initial()
	s = Apply(s, ToggleCartFullscreen, t0)
	s = Apply(s, ToggleQuickAdd, t0)

	flags := Mirror(s)
	assert.True(t, flags.CartFullscreen)
	assert.True(t, flags.QuickAddMode)

	restored := ApplyFlags(Initial(), flags)
	assert.True(t, restored.CartFullscreen)
	assert.True(t, restored.QuickAddMode)
	assert.Equal(t, ViewGrid, restored.ViewMode)
}

func TestFileFlagStoreRoundTrip(t *testing.T) {
	store := NewFileFlagStore(filepath.Join(t.TempDir(), "flags.json"))

	require.NoError(t, store.Save(MirroredFlags{CartFullscreen: true}))
	got, err := store.Load()
	require.NoError(t, err)
	assert.True(t, got.CartFullscreen)
	assert.False(t, got.QuickAddMode)
}

func TestFileFlagStoreMissingFileYieldsDefaults(t *testing.T) {
	store := NewFileFlagStore(filepath.Join(t.TempDir(), "flags.json"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, MirroredFlags{}, got)
}
