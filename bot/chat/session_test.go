package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

func TestSnapshotIsolatesEquipmentSpecs(t *testing.T) {
	s := NewSession("u1", time.Now())
	s.Step = "led_size"
	s.Service = entity.ServiceRental
	s.EquipmentCount = 2
	s.CurrentIdx = 1
	s.Data.LedSpecs = []entity.EquipmentSpec{{WidthMM: 3000, HeightMM: 2000}}

	snap := s.Snapshot()

	// Mutations after the snapshot must not leak into it.
	s.Data.LedSpecs[0].WidthMM = 6000
	s.Data.LedSpecs = append(s.Data.LedSpecs, entity.EquipmentSpec{WidthMM: 4000})
	s.CurrentIdx = 2

	s.Restore(snap)
	require.Len(t, s.Data.LedSpecs, 1)
	assert.Equal(t, 3000, s.Data.LedSpecs[0].WidthMM)
	assert.Equal(t, 1, s.CurrentIdx)
	assert.Equal(t, StepID("led_size"), s.Step)
}

func TestHistoryStack(t *testing.T) {
	s := NewSession("u1", time.Now())

	_, ok := s.PopHistory()
	assert.False(t, ok)

	s.Step = "venue"
	s.PushHistory(s.Snapshot())
	s.Step = "equipment_count"
	s.PushHistory(s.Snapshot())

	snap, ok := s.PopHistory()
	require.True(t, ok)
	assert.Equal(t, StepID("equipment_count"), snap.Step)

	snap, ok = s.PopHistory()
	require.True(t, ok)
	assert.Equal(t, StepID("venue"), snap.Step)

	_, ok = s.PopHistory()
	assert.False(t, ok)
}

func TestCurrentSpec(t *testing.T) {
	s := NewSession("u1", time.Now())
	assert.Nil(t, s.CurrentSpec())

	s.CurrentIdx = 1
	assert.Nil(t, s.CurrentSpec(), "cursor ahead of appended specs")

	s.Data.LedSpecs = append(s.Data.LedSpecs, entity.EquipmentSpec{WidthMM: 3000})
	spec := s.CurrentSpec()
	require.NotNil(t, spec)
	assert.Equal(t, 3000, spec.WidthMM)

	s.CurrentIdx = 2
	assert.Nil(t, s.CurrentSpec())
}
