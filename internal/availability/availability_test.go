package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyMask(t *testing.T) {
	m := EmptyMask()
	assert.Len(t, m, SlotsPerWeek)
	assert.Equal(t, 0, m.FreeHours())
	assert.NoError(t, m.Validate())
}

func TestDefault(t *testing.T) {
	a := Default("user_1")
	assert.Equal(t, "user_1", a.UserID)
	assert.Len(t, a.WeekMask, 168)
}

func TestSlotIndex_MondayStart(t *testing.T) {
	assert.Equal(t, 0, SlotIndex(time.Monday, 0))
	assert.Equal(t, 23, SlotIndex(time.Monday, 23))
	assert.Equal(t, 24, SlotIndex(time.Tuesday, 0))
	assert.Equal(t, 42, SlotIndex(time.Tuesday, 18))
	assert.Equal(t, 144, SlotIndex(time.Sunday, 0))
	assert.Equal(t, 167, SlotIndex(time.Sunday, 23))
}

func TestValidate_RejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 167, 169, 336} {
		assert.Error(t, make(WeekMask, n).Validate(), "length %d", n)
	}
}

func TestClone_DoesNotAlias(t *testing.T) {
	m := EmptyMask()
	c := m.Clone()
	c[0] = true

	assert.False(t, m[0])
	assert.Nil(t, WeekMask(nil).Clone())
}

func TestMask_ConvertsSlots(t *testing.T) {
	src := EmptyMask()
	src[SlotIndex(time.Wednesday, 9)] = true

	mask, err := NewUpdateRequest(src).Mask()
	require.NoError(t, err)
	assert.Equal(t, src, mask)

	src[0] = true
	assert.False(t, mask[0], "converted mask must not alias the source")
}

func TestMask_RejectsNullSlot(t *testing.T) {
	req := NewUpdateRequest(EmptyMask())
	req.WeekMask[100] = nil

	_, err := req.Mask()
	var slotErr *SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, 100, slotErr.Index)
	assert.Equal(t, "weekMask[100]", slotErr.Field())
}

func TestMask_RejectsWrongLength(t *testing.T) {
	_, err := NewUpdateRequest(make([]bool, 12)).Mask()
	assert.Error(t, err)
}
