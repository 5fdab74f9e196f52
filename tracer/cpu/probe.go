package cpu

import (
	"github.com/achilleasa/minilight/random"
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/scene/index"
	"github.com/achilleasa/minilight/tracer"
	"github.com/achilleasa/minilight/types"
	"github.com/chewxy/math32"
)

// Shadow rays stop short of the sampled emitter point so that the emitter
// itself does not count as an occluder.
const shadowRayLimit = 1 - scene.Tolerance

// Trace the primary rays of a block. Each ray leaves the eye in a uniformly
// distributed direction; rays that hit a surface cast a shadow ray towards a
// random point on a random emitter.
func traceBlock(sc *tracer.Scene, req *tracer.BlockRequest, verify bool) tracer.BlockResult {
	rng := random.New(req.Seed)
	ix := sc.Index
	res := tracer.BlockResult{Index: req.Index}

	for i := uint32(0); i < req.Rays; i++ {
		dir := randomDirection(rng)
		res.Rays++

		hit, ok := ix.NearestHit(sc.Eye, dir)
		if verify {
			expHit, expOk := bruteForceNearest(ix, sc.Eye, dir)
			if ok != expOk || (ok && hit.Distance != expHit.Distance) {
				res.Mismatches++
			}
		}
		if !ok {
			continue
		}

		res.Hits++
		res.HitDistance += float64(hit.Distance)

		if len(sc.Emitters) == 0 {
			continue
		}

		emitter := sc.Emitters[int(rng.Float32()*float32(len(sc.Emitters)))%len(sc.Emitters)]
		if emitter == hit.Triangle {
			continue
		}

		point := sc.Eye.Add(dir.Mul(hit.Distance))
		shadowDir := ix.Triangle(emitter).SamplePoint(rng).Sub(point)

		res.ShadowRays++
		occluded := ix.IsOccluded(point, shadowDir, shadowRayLimit)
		if verify && occluded != bruteForceOccluded(ix, point, shadowDir, shadowRayLimit) {
			res.Mismatches++
		}
		if occluded {
			res.Occluded++
		}
	}

	return res
}

// Pick a uniformly distributed unit direction by rejection sampling the unit
// ball.
func randomDirection(rng *random.Mwc) types.Vec3 {
	for {
		v := types.XYZ(
			rng.Float32()*2-1,
			rng.Float32()*2-1,
			rng.Float32()*2-1,
		)
		if lenSq := v.Dot(v); lenSq > 1e-6 && lenSq <= 1 {
			return v.Mul(1 / math32.Sqrt(lenSq))
		}
	}
}

// Scan every triangle for the nearest hit.
func bruteForceNearest(ix *index.Index, origin, dir types.Vec3) (index.Hit, bool) {
	best := index.Hit{Triangle: -1, Distance: math32.Inf(1)}
	if !ix.Bound().Contains(origin) {
		return best, false
	}

	for i := 0; i < ix.Len(); i++ {
		if dist, hit := ix.Triangle(i).Intersect(origin, dir); hit && dist < best.Distance {
			best = index.Hit{Triangle: i, Distance: dist}
		}
	}
	return best, best.Triangle >= 0
}

// Scan every triangle for a hit in (Epsilon, maxDistance).
func bruteForceOccluded(ix *index.Index, origin, dir types.Vec3, maxDistance float32) bool {
	if !ix.Bound().Contains(origin) {
		return false
	}

	for i := 0; i < ix.Len(); i++ {
		if dist, hit := ix.Triangle(i).Intersect(origin, dir); hit && dist > scene.Epsilon && dist < maxDistance {
			return true
		}
	}
	return false
}
