package cmd

import (
	"context"
	"testing"

	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleGetCommand_Run(t *testing.T) {
	m := newMocks()
	m.restaurant.GetScheduleFunc = func(ctx context.Context, restaurantID string) ([]iface.ScheduleSlot, error) {
		assert.Equal(t, "4", restaurantID)
		return []iface.ScheduleSlot{
			{Day: "monday", OpeningTime: "11:00", ClosingTime: "23:00"},
			{Day: "sunday", Closed: true},
		}, nil
	}

	output, err := m.execute(t, "restaurants", "schedule", "get", "4")
	require.NoError(t, err)
	assert.Contains(t, output, "monday")
	assert.Contains(t, output, "11:00")
	assert.Contains(t, output, "closed")

	output, err = m.execute(t, "restaurants", "schedule", "get", "4", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, output, `"openingTime": "11:00"`)
}

func TestScheduleSetCommand_Run(t *testing.T) {
	m := newMocks()
	var got []iface.ScheduleSlot
	m.restaurant.SetScheduleFunc = func(ctx context.Context, restaurantID string, schedule []iface.ScheduleSlot) ([]iface.ScheduleSlot, error) {
		got = schedule
		return schedule, nil
	}

	output, err := m.execute(t, "restaurants", "schedule", "set", "4",
		"--data", `[{"day":"tuesday","openingTime":"12:00","closingTime":"22:00"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tuesday", got[0].Day)
	assert.Contains(t, output, "Schedule updated")

	_, err = m.execute(t, "restaurants", "schedule", "set", "4")
	assert.Error(t, err)

	_, err = m.execute(t, "restaurants", "schedule", "set", "4", "--data", `{"day":"monday"}`)
	assert.Error(t, err)
}

func TestSetManagerCommand_Run(t *testing.T) {
	m := newMocks()
	m.restaurant.SetManagerFunc = func(ctx context.Context, restaurantID string, managerID int) (iface.Record, error) {
		assert.Equal(t, "4", restaurantID)
		assert.Equal(t, 12, managerID)
		return iface.Record{"id": float64(4), "managerId": float64(12)}, nil
	}

	output, err := m.execute(t, "restaurants", "set-manager", "4", "12")
	require.NoError(t, err)
	assert.Contains(t, output, "User 12 now manages restaurant 4")

	_, err = m.execute(t, "restaurants", "set-manager", "4", "chef")
	assert.Error(t, err)
}

func TestUserSetRestaurantsCommand_Run(t *testing.T) {
	m := newMocks()
	var got []int
	m.restaurant.SetUserRestaurantsFunc = func(ctx context.Context, userID string, restaurantIDs []int) (iface.Record, error) {
		assert.Equal(t, "12", userID)
		got = restaurantIDs
		return iface.Record{"id": float64(12)}, nil
	}

	output, err := m.execute(t, "users", "set-restaurants", "12", "4", "5")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, got)
	assert.Contains(t, output, "attached to 2 restaurant(s)")

	_, err = m.execute(t, "users", "set-restaurants", "12")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = m.execute(t, "users", "set-restaurants", "12", "x")
	assert.Error(t, err)
}

func TestNotificationCommands_Run(t *testing.T) {
	m := newMocks()
	m.notification.UnreadFunc = func(ctx context.Context) ([]iface.Record, error) {
		return []iface.Record{{"id": float64(5), "message": "Nouveau commentaire", "read": false}}, nil
	}
	var marked []string
	m.notification.MarkReadFunc = func(ctx context.Context, id string) error {
		marked = append(marked, id)
		return nil
	}

	output, err := m.execute(t, "notifications", "unread")
	require.NoError(t, err)
	assert.Contains(t, output, "Nouveau commentaire")

	output, err = m.execute(t, "notifications", "read", "5", "6")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "6"}, marked)
	assert.Contains(t, output, "2 notification(s) marked as read")
}
