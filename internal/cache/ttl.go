package cache

import "time"

type Category string

const (
	CategorySettings         Category = "settings"
	CategoryRoomAvailability Category = "room_availability"
	CategoryUserProfiles     Category = "user_profiles"
	CategoryBookingHistory   Category = "booking_history"
	CategoryPublicContent    Category = "public_content"
	CategoryDashboardStats   Category = "dashboard_stats"
)

const defaultTTL = 5 * time.Minute

// Volatile data gets short TTLs, near-static data long ones.
var categoryTTLs = map[Category]time.Duration{
	CategorySettings:         10 * time.Minute,
	CategoryRoomAvailability: time.Minute,
	CategoryUserProfiles:     5 * time.Minute,
	CategoryBookingHistory:   2 * time.Minute,
	CategoryPublicContent:    time.Hour,
	CategoryDashboardStats:   30 * time.Second,
}

func TTLFor(category Category) time.Duration {
	if ttl, ok := categoryTTLs[category]; ok {
		return ttl
	}
	return defaultTTL
}
