package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePublishesPerSession(t *testing.T) {
	ctx := context.Background()
	svc := NewAttainmentService(newMemoryRouting())

	report, err := svc.Compute(ctx, "a", "test1", test1Rows(), "")
	require.NoError(t, err)
	require.NotNil(t, report.Summary.SelectedCO)
	assert.Equal(t, attainment.CO1, *report.Summary.SelectedCO)
	assert.Len(t, report.Remedial, 2)

	slots, err := svc.Routing(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []RoutingSlot{
		{Slot: attainment.SlotTest1, CO: attainment.CO1},
		{Slot: attainment.SlotTest2, CO: attainment.CO4, Default: true},
	}, slots)

	other, err := svc.Compute(ctx, "b", "ip1", test1Rows(), "")
	require.NoError(t, err)
	assert.Equal(t, attainment.CO2, *other.RoutedCO)

	mine, err := svc.Compute(ctx, "a", "ip1", test1Rows(), "")
	require.NoError(t, err)
	assert.Equal(t, attainment.CO1, *mine.RoutedCO)

	require.NoError(t, svc.ResetRouting(ctx, "a"))
	slots, err = svc.Routing(ctx, "a")
	require.NoError(t, err)
	assert.True(t, slots[0].Default)
	assert.Equal(t, attainment.CO2, slots[0].CO)
}

func TestComputeRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewAttainmentService(newMemoryRouting())

	_, err := svc.Compute(ctx, "s", "lab", test1Rows(), "")
	assert.ErrorIs(t, err, util.ErrUnknownAssessment)

	_, err = svc.Compute(ctx, "s", "test1", test1Rows(), "CO7")
	assert.ErrorIs(t, err, util.ErrInvalidCOFilter)
}

func TestRemedialFilter(t *testing.T) {
	ctx := context.Background()
	svc := NewAttainmentService(newMemoryRouting())

	entries, err := svc.Remedial(ctx, "s", "test2", test1Rows(), "CO5")
	require.NoError(t, err)
	// 50 is full marks; 10 -> 2/10, 4/20, 4/20
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Row["Name"])
	require.Len(t, entries[0].Details, 1)
	assert.Equal(t, attainment.CO5, entries[0].Details[0].CO)
}

func TestComputeAllInDependencyOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewAttainmentService(newMemoryRouting())

	reports, err := svc.ComputeAll(ctx, attainment.NewMemoryRoutingStore(), test1Rows())
	require.NoError(t, err)
	require.Len(t, reports, 5)

	keys := make([]attainment.Key, 0, len(reports))
	for _, r := range reports {
		keys = append(keys, r.Assessment)
	}
	assert.Equal(t, attainment.Order, keys)

	// test2: CO4 and CO5 both 1 of 2 achieved, level 1 each; the tie goes to CO5
	assert.Equal(t, attainment.CO5, *reports[1].Summary.SelectedCO)
	assert.Equal(t, attainment.CO1, *reports[3].RoutedCO)
	assert.Equal(t, attainment.CO5, *reports[4].RoutedCO)
	assert.Equal(t, 8, reports[3].Rows[0]["MARKS OBTAINED CO1"])
	assert.Equal(t, 8, reports[2].Rows[0]["IP2"])
}

func TestAssessmentsListing(t *testing.T) {
	infos := NewAttainmentService(newMemoryRouting()).Assessments()
	require.Len(t, infos, 5)
	assert.Equal(t, attainment.SlotTest1, infos[0].PublishesTo)
	assert.Equal(t, 50, infos[0].Total)
	assert.True(t, infos[2].Split)
	assert.Equal(t, attainment.SlotTest2, infos[4].ReadsFrom)
}
