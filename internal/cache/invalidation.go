package cache

import "regexp"

// Group ties a category of writes to everything it makes stale: the Redis
// key patterns cleared server-side and the client route patterns the mirror
// cache drops. Keeping both halves in one table is what stops the server and
// client from drifting apart.
type Group struct {
	Name         string
	KeyPatterns  []string
	routeSources []string

	RoutePatterns []*regexp.Regexp
}

const (
	GroupRooms         = "rooms"
	GroupUsers         = "users"
	GroupBookings      = "bookings"
	GroupSettings      = "settings"
	GroupPublicContent = "public_content"
)

var Groups = map[string]*Group{
	GroupRooms: {
		Name:         GroupRooms,
		KeyPatterns:  []string{"rooms:*", "room:*", "room_occupants:*", "stats:*", "dashboard:*"},
		routeSources: []string{`^/api/rooms`, `^/api/dashboard/stats`},
	},
	GroupUsers: {
		Name: GroupUsers,
		KeyPatterns: []string{
			"user:*", "students:*", "student:*", "admins:*", "admin:*",
			"student_bookings:*", "room_occupants:*",
		},
		routeSources: []string{`^/api/me`, `^/api/students`, `^/api/admins`, `^/api/bookings/me`},
	},
	GroupBookings: {
		Name: GroupBookings,
		KeyPatterns: []string{
			"bookings:*", "booking:*", "student_bookings:*", "room_occupants:*",
			"stats:*", "dashboard:*",
		},
		routeSources: []string{`^/api/bookings`, `^/api/dashboard/stats`},
	},
	GroupSettings: {
		Name:         GroupSettings,
		KeyPatterns:  []string{"settings:*"},
		routeSources: []string{`^/api/settings`},
	},
	GroupPublicContent: {
		Name:         GroupPublicContent,
		KeyPatterns:  []string{"public_content:*"},
		routeSources: []string{`^/api/public/content`},
	},
}

func init() {
	for _, g := range Groups {
		for _, src := range g.routeSources {
			g.RoutePatterns = append(g.RoutePatterns, regexp.MustCompile(src))
		}
	}
}

// GroupForPath maps a normalized mutating request path to the invalidation
// group it belongs to, or nil when no group claims it.
func GroupForPath(path string) *Group {
	// Deterministic order: more specific write surfaces first.
	for _, name := range []string{GroupBookings, GroupRooms, GroupSettings, GroupPublicContent, GroupUsers} {
		g := Groups[name]
		for _, pattern := range g.RoutePatterns {
			if pattern.MatchString(path) {
				return g
			}
		}
	}
	return nil
}

// RouteTTL assigns a cache category to a normalized GET path. The client
// mirror derives its TTLs from this table, so it can never outlive the
// server's category TTL.
type RouteTTL struct {
	Pattern  *regexp.Regexp
	Category Category
}

// Ordered most specific first.
var RouteTTLs = []RouteTTL{
	{regexp.MustCompile(`^/api/rooms/available$`), CategoryRoomAvailability},
	{regexp.MustCompile(`^/api/rooms$`), CategoryRoomAvailability},
	{regexp.MustCompile(`^/api/bookings/me$`), CategoryBookingHistory},
	{regexp.MustCompile(`^/api/bookings$`), CategoryBookingHistory},
	{regexp.MustCompile(`^/api/settings$`), CategorySettings},
	{regexp.MustCompile(`^/api/public/content/`), CategoryPublicContent},
	{regexp.MustCompile(`^/api/dashboard/stats$`), CategoryDashboardStats},
	{regexp.MustCompile(`^/api/me$`), CategoryUserProfiles},
}
