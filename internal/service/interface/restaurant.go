package iface

import (
	"context"
)

// ScheduleSlot is the opening time range of a restaurant for one day
type ScheduleSlot struct {
	Day         string `json:"day"`
	OpeningTime string `json:"openingTime,omitempty"`
	ClosingTime string `json:"closingTime,omitempty"`
	Closed      bool   `json:"closed"`
}

// RestaurantService defines restaurant operations beyond plain CRUD
type RestaurantService interface {
	// GetSchedule returns the weekly schedule of a restaurant
	GetSchedule(ctx context.Context, restaurantID string) ([]ScheduleSlot, error)

	// SetSchedule replaces the weekly schedule of a restaurant
	SetSchedule(ctx context.Context, restaurantID string, schedule []ScheduleSlot) ([]ScheduleSlot, error)

	// SetManager assigns a user as manager of a restaurant
	SetManager(ctx context.Context, restaurantID string, managerID int) (Record, error)

	// SetUserRestaurants replaces the restaurants a user works in
	SetUserRestaurants(ctx context.Context, userID string, restaurantIDs []int) (Record, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	// Unread returns the notifications not yet read
	Unread(ctx context.Context) ([]Record, error)

	// MarkRead marks a notification as read
	MarkRead(ctx context.Context, id string) error
}
