// Calculate some geometries, lengths, angles and boxes around atoms.

package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

const (
	mindist  = 2.6
	mindist2 = mindist * mindist
	maxdist  = 4.1 // max dist for c_alpha to c_alpha
	maxdist2 = maxdist * maxdist
)

var (
	ErrTooFar     = errors.New("too big")
	ErrTooClose   = errors.New("too small")
	ErrBrokenAngl = errors.New("broken angle")
	ErrEmpty      = errors.New("no coordinates")
	ErrLength     = errors.New("coordinate sets differ in length")
)

// SquaredDistance is the distance between two points, squared.
func SquaredDistance(a, b cmmn.Xyz) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Dist is the distance between two points.
func Dist(a, b cmmn.Xyz) float64 { return math.Sqrt(SquaredDistance(a, b)) }

// xyzhelper makes the code below a bit more compact. Returns distance
// squared in one dimension or an error if it is bigger than our limit.
func xyzhelper(r1, r2 float64) (float64, error) {
	r := r1 - r2
	r = r * r
	if r >= maxdist2 {
		return r, ErrTooFar
	}
	return r, nil
}

// CADist gets the distance between two alpha carbons, but if it is
// bigger than a peptide bond allows or smaller than two atoms can
// approach, it returns an error.
func CADist(x1, x2 cmmn.Xyz) (float64, error) {
	var xd, yd, zd float64
	var err error
	if xd, err = xyzhelper(x1.X, x2.X); err != nil {
		return xd, err
	}
	if yd, err = xyzhelper(x1.Y, x2.Y); err != nil {
		return yd, err
	}
	if zd, err = xyzhelper(x1.Z, x2.Z); err != nil {
		return zd, err
	}
	r := xd + yd + zd
	if r >= maxdist2 {
		return r, ErrTooFar
	}
	if r <= mindist2 {
		return r, ErrTooClose
	}
	return math.Sqrt(r), nil
}

// CABreaks takes alpha carbons in chain order and returns the index of
// each one which is not properly bonded to the next.
func CABreaks(ca []cmmn.Xyz) []int {
	var ret []int
	for i := 0; i < len(ca)-1; i++ {
		if _, err := CADist(ca[i], ca[i+1]); err != nil {
			ret = append(ret, i)
		}
	}
	return ret
}

// RMSNoAlign is the root mean square difference between two sets of
// points, taken as they are, without any superposition.
func RMSNoAlign(a, b []cmmn.Xyz) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLength, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmpty
	}
	var sum float64
	for i := range a {
		sum += SquaredDistance(a[i], b[i])
	}
	return math.Sqrt(sum / float64(len(a))), nil
}

// BoundingBox returns the lowest and highest corners of the box
// around the points.
func BoundingBox(pts []cmmn.Xyz) (lo, hi cmmn.Xyz, err error) {
	if len(pts) == 0 {
		return lo, hi, ErrEmpty
	}
	lo = cmmn.Xyz{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	hi = cmmn.Xyz{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for _, p := range pts {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	return lo, hi, nil
}

// BoundingCube is the bounding box stretched to a cube with the same
// lower corner. The edge is nudged up a little so that every point is
// strictly inside on the high side.
func BoundingCube(pts []cmmn.Xyz) (lo cmmn.Xyz, edge float64, err error) {
	lo, hi, err := BoundingBox(pts)
	if err != nil {
		return lo, 0, err
	}
	d := hi.Sub(lo)
	edge = max(d.X, d.Y, d.Z)
	return lo, math.Nextafter(edge, math.Inf(1)), nil
}

// CoordMatrix puts points into an n x 3 matrix, one row per point.
func CoordMatrix(pts []cmmn.Xyz) *matrix.FMatrix2d {
	m := matrix.NewFMatrix2d(len(pts), 3)
	for i, p := range pts {
		m.Mat[i][0], m.Mat[i][1], m.Mat[i][2] = float32(p.X), float32(p.Y), float32(p.Z)
	}
	return m
}

// DistMatrix is the symmetric n x n matrix of distances between points.
func DistMatrix(pts []cmmn.Xyz) *matrix.FMatrix2d {
	m := matrix.NewFMatrix2d(len(pts), len(pts))
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			d := float32(Dist(pts[i], pts[j]))
			m.Mat[i][j], m.Mat[j][i] = d, d
		}
	}
	return m
}

// XyzAngle takes three points and returns the angle between them
func XyzAngle(a, b, c cmmn.Xyz) (float64, error) {
	x1 := a.Sub(b)
	x2 := c.Sub(b)
	cosalpha := sclrProd(x1, x2) / (xyzLen(x1) * xyzLen(x2))
	if cosalpha > 1 && cosalpha < 1.01 { // numerical noise
		return 0.0, nil
	}
	if cosalpha < -1 && cosalpha > -1.01 {
		return math.Pi, nil
	}
	if cosalpha < -1 || cosalpha > 1 || math.IsNaN(cosalpha) {
		return math.NaN(), ErrBrokenAngl
	}
	return math.Acos(cosalpha), nil
}

// vecProd returns the vector product of two vectors
func vecProd(u, v cmmn.Xyz) (res cmmn.Xyz) {
	res.X = u.Y*v.Z - u.Z*v.Y
	res.Y = u.Z*v.X - u.X*v.Z
	res.Z = u.X*v.Y - u.Y*v.X
	return res
}

func sclrProd(u, v cmmn.Xyz) float64 { return u.X*v.X + u.Y*v.Y + u.Z*v.Z }

func xyzLen2(v cmmn.Xyz) float64 { return sclrProd(v, v) }

func xyzLen(v cmmn.Xyz) float64 { return math.Sqrt(xyzLen2(v)) }

// XyzDhdrl takes four points and returns the dihedral angle
func XyzDhdrl(ii, jj, kk, ll cmmn.Xyz) float64 {
	rIJ := jj.Sub(ii)
	rKJ := jj.Sub(kk)
	rKL := ll.Sub(kk)
	rIM := rKJ.Scale(sclrProd(rIJ, rKJ) / xyzLen2(rKJ)).Sub(rIJ)
	rLN := rKL.Sub(rKJ.Scale(sclrProd(rKL, rKJ) / xyzLen2(rKJ)))

	tCos := sclrProd(rIM, rLN) / (xyzLen(rIM) * xyzLen(rLN))
	if tCos > 1 { // Numerical errors can catch us. If so, no need
		return 0.0 // to call acos()
	}
	if tCos < -1 {
		return math.Pi
	}
	tau := math.Acos(tCos)
	if sclrProd(rIJ, vecProd(rKJ, rKL)) >= 0 {
		return tau
	}
	return -tau
}
