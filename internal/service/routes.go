package service

// Route is one of the action group's known API paths.
type Route int

const (
	RouteUnknown Route = iota
	RouteMember
	RouteRewardsBalance
	RouteTrips
	RouteMemberBookings
	RouteBookings
)

type routeInfo struct {
	name        string
	path        string
	description string
}

var routeTable = map[Route]routeInfo{
	RouteMember:         {"member", "/member/{memberNumber}", "Look up a member profile by member number."},
	RouteRewardsBalance: {"rewards_balance", "/rewards/balance/{memberId}", "Get the reward dollar balance of a member."},
	RouteTrips:          {"trips", "/trips/{locationName}", "List trips available for a location."},
	RouteMemberBookings: {"member_bookings", "/bookings/{memberId}", "List the bookings of a member."},
	RouteBookings:       {"bookings", "/bookings", "Work with bookings."},
}

var routesByPath = func() map[string]Route {
	m := make(map[string]Route, len(routeTable))
	for r, info := range routeTable {
		m[info.path] = r
	}
	return m
}()

// MatchRoute resolves an API path by exact string match.
func MatchRoute(apiPath string) Route {
	if r, ok := routesByPath[apiPath]; ok {
		return r
	}
	return RouteUnknown
}

// KnownRoutes lists every route except RouteUnknown in declaration order.
func KnownRoutes() []Route {
	return []Route{RouteMember, RouteRewardsBalance, RouteTrips, RouteMemberBookings, RouteBookings}
}

func (r Route) String() string {
	if info, ok := routeTable[r]; ok {
		return info.name
	}
	return "unknown"
}

// Path returns the API path template, or "" for RouteUnknown.
func (r Route) Path() string {
	return routeTable[r].path
}

func (r Route) Description() string {
	return routeTable[r].description
}
