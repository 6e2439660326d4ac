package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ActivityType: activity.TypeSessionOpened,
		Summary:      "session opened with 100.00",
		Details:      `{"amount":"100.00"}`,
	}
	entry2 := &activity.ActivityEntry{
		ActivityType: activity.TypeSaleCommitted,
		Summary:      "sale of 6.00",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, entry1.Details, entries[1].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	s1, s2 := "s1", "s2"
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{SessionID: &s1, ActivityType: activity.TypeCountRecorded, Summary: "a"}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{SessionID: &s1, ActivityType: activity.TypeSaleCommitted, Summary: "b"}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{SessionID: &s2, ActivityType: activity.TypeSaleCommitted, Summary: "c"}))

	saleType := activity.TypeSaleCommitted
	entries, err := repo.List(ctx, activity.ListActivityOptions{SessionID: &s1, ActivityType: &saleType})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].Summary)
	require.Equal(t, "s1", *entries[0].SessionID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
