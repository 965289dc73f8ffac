package strands

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ScaleMode selects how an object's scale carries over to its strands.
type ScaleMode uint8

const (
	ScaleFixed ScaleMode = iota
	ScaleUniformMin
	ScaleUniformMax
)

var scaleModeNames = map[ScaleMode]string{
	ScaleFixed:      "fixed",
	ScaleUniformMin: "uniform_min",
	ScaleUniformMax: "uniform_max",
}

func (m ScaleMode) String() string {
	if name, ok := scaleModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("scale(%d)", uint8(m))
}

func ParseScaleMode(s string) (ScaleMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScaleFixed, nil
	}
	for m, name := range scaleModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown strand scale %q", s)
}

// Factor returns the uniform strand scale for an object of the given scale.
func (m ScaleMode) Factor(objectScale mgl64.Vec3) float64 {
	x, y, z := math.Abs(objectScale.X()), math.Abs(objectScale.Y()), math.Abs(objectScale.Z())
	switch m {
	case ScaleUniformMin:
		return math.Min(x, math.Min(y, z))
	case ScaleUniformMax:
		return math.Max(x, math.Max(y, z))
	default:
		return 1
	}
}
