package telemetry

// Tracer, span and attribute names used by the use cases.
const (
	TracerName = "github.com/samirrijal/garagehub"

	SpanGaragesNear      = "garages.near"
	SpanGaragesByService = "garages.by_service"
	SpanRoutePlan        = "garages.route"

	AttrRadiusKm    = "search.radius_km"
	AttrServiceID   = "search.service_id"
	AttrCandidates  = "search.candidates"
	AttrResults     = "search.results"
	AttrRouteSource = "route.source"
)
