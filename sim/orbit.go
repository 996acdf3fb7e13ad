package sim

import (
	"math"

	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

const degToRad = math.Pi / 180

// ellipticalPosition solves Kepler's equation for the given elements and
// returns the body's position relative to the orbit's focus. Parabolic
// and hyperbolic orbits (eccentricity outside [0,1)) are not supported
// and fail silently by returning the zero vector, matching the rest of
// the pipeline's policy of skipping unrepresentable inputs rather than
// propagating an error through a hot per-entity loop.
func ellipticalPosition(k scene.Kepler) lin.Vec3 {
	e := k.Eccentricity
	if e >= 1 || e < 0 {
		return lin.Zero3
	}

	a := k.SemiMajorAxis
	L := k.MeanLongitudeDeg * degToRad
	varpi := k.LongitudeOfPerihelionDeg * degToRad
	Omega := k.LongitudeOfAscendingNodeDeg * degToRad
	I := k.InclinationDeg * degToRad

	omega := varpi - Omega
	M := math.Mod(L-varpi+math.Pi, 2*math.Pi) - math.Pi

	E := M
	for i := 0; i < lin.KeplerMaxIterations; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < lin.KeplerEpsilon {
			break
		}
	}

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cosW, sinW := math.Cos(omega), math.Sin(omega)
	cosO, sinO := math.Cos(Omega), math.Sin(Omega)
	cosI, sinI := math.Cos(I), math.Sin(I)

	x := (cosW*cosO-sinW*sinO*cosI)*xp + (-sinW*cosO-cosW*sinO*cosI)*yp
	y := (cosW*sinO+sinW*cosO*cosI)*xp + (-sinW*sinO+cosW*cosO*cosI)*yp
	z := sinW*sinI*xp + cosW*sinI*yp

	return lin.Vec3{X: x, Y: y, Z: z}
}

// UpdateOrbitalMotion advances every Orbit component's elements to t
// seconds past epoch and writes the resulting position/velocity into
// Motion. t is the simulation clock, not the per-step dt: elements are
// always evaluated from absolute time since the orbit's epoch.
func UpdateOrbitalMotion(t float64, sc *scene.Scene) {
	for _, orbit := range sc.Orbits {
		current := orbit.Epoch.Add(orbit.Delta.Scale(t))
		pos := orbit.Focus.Add(ellipticalPosition(current))
		m := sc.Motions[orbit.ID]
		m.NewPosition = pos
		m.Velocity = pos.Sub(sc.Transforms[orbit.ID].Position)
		sc.Motions[orbit.ID] = m
	}
}
