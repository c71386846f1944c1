package kernel

import (
	"fmt"
	"math"

	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

// PolygonMinVertices is the minimum number of vertices a polygon ring must have.
const PolygonMinVertices = 3

// collinearEpsilon bounds the cross product below which three consecutive
// vertices are treated as a degenerate (collinear) run.
const collinearEpsilon = 1e-12

// ErrPolygonIsNotConstructed is returned when attempting to use an improperly initialized Polygon.
var ErrPolygonIsNotConstructed = errs.NewValueIsRequiredError(
	"polygon must be created via NewPolygon constructor")

// Polygon represents a closed ring of geographic vertices, such as a delivery
// zone drawn by an operator. Polygon is an immutable value object: malformed
// rings (fewer than PolygonMinVertices vertices, duplicate vertices, or a
// degenerate collinear run) are rejected at construction time, never at
// query time.
type Polygon struct { //nolint:recvcheck //using for validation
	vertices []Location
	guard    guard.ConstructorGuard
}

// NewPolygon creates a Polygon from an ordered ring of vertices.
// The ring is implicitly closed: the last vertex connects back to the first.
//
// Validation rules:
//   - at least PolygonMinVertices vertices
//   - every vertex properly constructed
//   - no two vertices equal
//   - no three consecutive vertices collinear
func NewPolygon(vertices []Location) (Polygon, error) {
	if len(vertices) < PolygonMinVertices {
		return Polygon{}, errs.NewValueIsInvalidErrorWithCause("polygon",
			fmt.Errorf("%d vertices is fewer than the minimum of %d", len(vertices), PolygonMinVertices))
	}

	for i, v := range vertices {
		if err := v.Validate(); err != nil {
			return Polygon{}, errs.NewValueIsInvalidErrorWithCause("polygon",
				fmt.Errorf("vertex %d: %w", i, err))
		}
	}

	for i := 0; i < len(vertices); i++ {
		for j := i + 1; j < len(vertices); j++ {
			if equal, _ := vertices[i].IsEqual(vertices[j]); equal {
				return Polygon{}, errs.NewValueIsInvalidErrorWithCause("polygon",
					fmt.Errorf("vertices %d and %d are duplicates", i, j))
			}
		}
	}

	n := len(vertices)
	for i := 0; i < n; i++ {
		a, b, c := vertices[i], vertices[(i+1)%n], vertices[(i+2)%n]
		if isCollinear(a, b, c) {
			return Polygon{}, errs.NewValueIsInvalidErrorWithCause("polygon",
				fmt.Errorf("vertices %d, %d and %d form a degenerate collinear run", i, (i+1)%n, (i+2)%n))
		}
	}

	ring := make([]Location, n)
	copy(ring, vertices)

	return Polygon{
		vertices: ring,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Polygon was properly constructed using the constructor.
func (p Polygon) Validate() error {
	return p.guard.Validate(ErrPolygonIsNotConstructed)
}

// Vertices returns a copy of the polygon's vertex ring.
func (p Polygon) Vertices() []Location {
	ring := make([]Location, len(p.vertices))
	copy(ring, p.vertices)
	return ring
}

// Contains reports whether the given location lies inside the polygon using
// the ray-casting (even-odd) rule. A ray is cast eastwards from the point and
// edge crossings are counted; an odd count means the point is inside.
// Points exactly on an edge may resolve either way, which is acceptable for
// operator-drawn zones.
func (p Polygon) Contains(loc Location) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if err := loc.Validate(); err != nil {
		return false, err
	}

	lat := loc.Latitude()
	lon := loc.Longitude()
	inside := false

	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		latI, lonI := p.vertices[i].Latitude(), p.vertices[i].Longitude()
		latJ, lonJ := p.vertices[j].Latitude(), p.vertices[j].Longitude()

		if (latI > lat) != (latJ > lat) &&
			lon < (lonJ-lonI)*(lat-latI)/(latJ-latI)+lonI {
			inside = !inside
		}
	}

	return inside, nil
}

// isCollinear reports whether three vertices lie on a single line, within
// floating point tolerance, treating coordinates as planar degrees. Zones are
// city-scale, so the planar approximation is sufficient here.
func isCollinear(a, b, c Location) bool {
	cross := (b.Longitude()-a.Longitude())*(c.Latitude()-a.Latitude()) -
		(b.Latitude()-a.Latitude())*(c.Longitude()-a.Longitude())
	return math.Abs(cross) < collinearEpsilon
}
