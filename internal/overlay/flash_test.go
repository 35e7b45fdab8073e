package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftFlash_RisingEdgeTriggersOnce(t *testing.T) {
	f := NewShiftFlash(150)

	for _, grade := range []int{0, 0} {
		f.Update(grade)
		assert.False(t, f.Active())
	}

	// First nonzero sample triggers and captures the grade.
	f.Update(2)
	assert.True(t, f.Active())
	assert.Equal(t, 2, f.Grade())

	// Held nonzero grade does not retrigger; grade returning to zero does
	// not stop the flash.
	f.Update(2)
	f.Update(0)
	assert.True(t, f.Active())
	assert.Equal(t, 2, f.Grade())
}

func TestShiftFlash_Duration(t *testing.T) {
	f := NewShiftFlash(150)

	f.Update(1)
	ticks := 1
	for f.Active() && ticks < 1000 {
		f.Update(0)
		if f.Active() {
			ticks++
		}
	}

	assert.Equal(t, 150, ticks)
	assert.False(t, f.Active())
}

func TestShiftFlash_NewEdgeDuringFlashRestarts(t *testing.T) {
	f := NewShiftFlash(10)

	f.Update(1)
	// Grade drops to zero then comes back nonzero while still flashing;
	// that is a fresh rising edge and restarts the flash with the new grade.
	f.Update(0)
	f.Update(3)
	assert.Equal(t, 3, f.Grade())
	assert.True(t, f.Active())
}

func TestShiftFlash_RetriggerAfterIdle(t *testing.T) {
	f := NewShiftFlash(2)

	f.Update(2)
	f.Update(0)
	assert.True(t, f.Active())
	f.Update(0)
	assert.False(t, f.Active())

	f.Update(1)
	assert.True(t, f.Active())
	assert.Equal(t, 1, f.Grade())
}
