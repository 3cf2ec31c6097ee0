/*package geom provides the minimal geometry types shared by the mesh and
reconstruction packages: a 3-vector of positions and an indexer for
reasoning over a 1D slice as if it were a 3D grid.
*/
package geom

// Vec is a comoving Cartesian position or offset.
type Vec [3]float64

// Add returns v + u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns v scaled by a.
func (v Vec) Scale(a float64) Vec {
	return Vec{v[0] * a, v[1] * a, v[2] * a}
}

// Dot returns the inner product of v and u.
func (v Vec) Dot(u Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 3D grid with x as the fastest-varying index.
type Grid struct {
	Width                [3]int
	Length, Area, Volume int
}

// NewGrid returns a new Grid instance.
func NewGrid(width [3]int) *Grid {
	g := &Grid{}
	g.Init(width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(width [3]int) {
	g.Width = width
	g.Length = width[0]
	g.Area = width[0] * width[1]
	g.Volume = width[0] * width[1] * width[2]
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return x + y*g.Length + z*g.Area
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.Length
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 &&
		x < g.Width[0] && y < g.Width[1] && z < g.Width[2]
}

// PMod computes the positive modulo x % y.
func PMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
