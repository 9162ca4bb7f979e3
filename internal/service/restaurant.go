package service

import (
	"context"
	"fmt"

	"github.com/restohub/resto-cli/internal/api"
	iface "github.com/restohub/resto-cli/internal/service/interface"
)

// restaurantService implements iface.RestaurantService
type restaurantService struct {
	client *api.Client
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(client *api.Client) iface.RestaurantService {
	return &restaurantService{
		client: client,
	}
}

// GetSchedule returns the weekly schedule of a restaurant
func (s *restaurantService) GetSchedule(ctx context.Context, restaurantID string) ([]iface.ScheduleSlot, error) {
	var schedule []iface.ScheduleSlot
	if err := s.client.Get(ctx, schedulePath(restaurantID), &schedule); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	return schedule, nil
}

// SetSchedule replaces the weekly schedule of a restaurant
func (s *restaurantService) SetSchedule(ctx context.Context, restaurantID string, schedule []iface.ScheduleSlot) ([]iface.ScheduleSlot, error) {
	var updated []iface.ScheduleSlot
	if err := s.client.Put(ctx, schedulePath(restaurantID), schedule, &updated); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	if updated == nil {
		return schedule, nil
	}
	return updated, nil
}

// SetManager assigns a user as manager of a restaurant
func (s *restaurantService) SetManager(ctx context.Context, restaurantID string, managerID int) (iface.Record, error) {
	payload := map[string]int{"managerId": managerID}

	var record iface.Record
	if err := s.client.Patch(ctx, itemPath(iface.Restaurants, restaurantID), payload, &record); err != nil {
		return nil, fmt.Errorf("failed to assign manager: %w", err)
	}

	return record, nil
}

// SetUserRestaurants replaces the restaurants a user works in
func (s *restaurantService) SetUserRestaurants(ctx context.Context, userID string, restaurantIDs []int) (iface.Record, error) {
	if restaurantIDs == nil {
		restaurantIDs = []int{}
	}
	payload := map[string][]int{"restaurantIds": restaurantIDs}

	var record iface.Record
	if err := s.client.Put(ctx, itemPath(iface.Users, userID)+"/restaurants", payload, &record); err != nil {
		return nil, fmt.Errorf("failed to assign restaurants: %w", err)
	}

	return record, nil
}

func schedulePath(restaurantID string) string {
	return itemPath(iface.Restaurants, restaurantID) + "/schedule"
}
