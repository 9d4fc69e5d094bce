package human

import (
	"math"
	"math/rand"
)

// Fitts's law coefficients for movement time.
const (
	fittsReaction = 0.1
	fittsMovement = 0.1
)

type point struct {
	x, y float64
}

// bezierPoint evaluates a Bezier curve of arbitrary degree at t using
// De Casteljau's algorithm.
func bezierPoint(t float64, points []point) point {
	if len(points) == 1 {
		return points[0]
	}
	reduced := make([]point, len(points)-1)
	for i := range reduced {
		reduced[i] = point{
			x: (1-t)*points[i].x + t*points[i+1].x,
			y: (1-t)*points[i].y + t*points[i+1].y,
		}
	}
	return bezierPoint(t, reduced)
}

// controlPoints builds the control polygon for a natural-looking curve
// between start and end: points spread along the line, pushed off it
// perpendicularly by a gaussian amount that grows with distance.
func controlPoints(start, end point, numControl int) []point {
	points := []point{start}

	dx := end.x - start.x
	dy := end.y - start.y
	distance := math.Hypot(dx, dy)

	deviation := math.Min(distance*0.3, 100)

	var perpX, perpY float64
	if distance > 0 {
		perpX = -dy / distance
		perpY = dx / distance
	}

	for i := 0; i < numControl; i++ {
		t := float64(i+1) / float64(numControl+1)
		offset := rand.NormFloat64() * deviation * 0.5
		points = append(points, point{
			x: start.x + dx*t + perpX*offset,
			y: start.y + dy*t + perpY*offset,
		})
	}

	return append(points, end)
}

// movementTime estimates how long a human hand takes to cover distance,
// per Fitts's law with ±20% noise, clamped to [minTime, maxTime].
func movementTime(distance, minTime, maxTime float64) float64 {
	if distance < 1 {
		return minTime
	}
	base := fittsReaction + fittsMovement*math.Log2(1+distance/10)
	t := base * (0.8 + rand.Float64()*0.4)
	return math.Max(minTime, math.Min(maxTime, t))
}

// easeInOutCubic maps linear progress to slow-fast-slow progress.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// jitter nudges a point by gaussian noise for micro-adjustments.
func jitter(p point, amount float64) point {
	return point{
		x: p.x + rand.NormFloat64()*amount,
		y: p.y + rand.NormFloat64()*amount,
	}
}

var keyboardNeighbors = map[rune]string{
	'q': "wa", 'w': "qeas", 'e': "wsdr", 'r': "edft", 't': "rfgy",
	'y': "tghu", 'u': "yhji", 'i': "ujko", 'o': "iklp", 'p': "ol",
	'a': "qwsz", 's': "awedxz", 'd': "serfcx", 'f': "drtgvc",
	'g': "ftyhbv", 'h': "gyujnb", 'j': "huikmn", 'k': "jiolm",
	'l': "kop", 'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb",
	'b': "vghn", 'n': "bhjm", 'm': "njk",
}

// adjacentKey returns a key next to c on a QWERTY layout, preserving
// case. Characters off the letter block come back unchanged.
func adjacentKey(c rune) rune {
	lower := c
	upper := false
	if c >= 'A' && c <= 'Z' {
		lower = c + ('a' - 'A')
		upper = true
	}
	neighbors, ok := keyboardNeighbors[lower]
	if !ok {
		return c
	}
	wrong := rune(neighbors[rand.Intn(len(neighbors))])
	if upper {
		return wrong - ('a' - 'A')
	}
	return wrong
}

// betaSample draws from Beta(2, 5) by taking the second smallest of six
// uniforms, skewing results toward zero.
func betaSample() float64 {
	var first, second = 1.0, 1.0
	for i := 0; i < 6; i++ {
		u := rand.Float64()
		switch {
		case u < first:
			first, second = u, first
		case u < second:
			second = u
		}
	}
	return second
}
