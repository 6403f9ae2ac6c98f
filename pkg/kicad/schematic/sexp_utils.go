package schematic

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp/kicadsexp"
)

// Schematic coordinates are millimeters natively; no unit conversion here.

// getPosition extracts position and angle from an (at X Y [angle]) node
func getPosition(s kicadsexp.Sexp) (sexp.PositionAngle, error) {
	if s == nil || s.IsLeaf() {
		return sexp.PositionAngle{}, fmt.Errorf("expected (at X Y [angle]) list")
	}

	key, err := sexp.GetString(s, 0)
	if err != nil {
		return sexp.PositionAngle{}, err
	}
	if key != "at" {
		return sexp.PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}

	x, err := sexp.GetFloat(s, 1)
	if err != nil {
		return sexp.PositionAngle{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}

	y, err := sexp.GetFloat(s, 2)
	if err != nil {
		return sexp.PositionAngle{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}

	result := sexp.PositionAngle{
		Position: sexp.Position{X: x, Y: y},
	}

	// Angle is optional
	if angle, err := sexp.GetAngle(s, 3); err == nil {
		result.Angle = angle
	}

	return result, nil
}

// getPositionXY extracts just X,Y from a (keyword X Y) node
func getPositionXY(s kicadsexp.Sexp) (sexp.Position, error) {
	if s == nil || s.IsLeaf() {
		return sexp.Position{}, fmt.Errorf("expected position list")
	}

	x, err := sexp.GetFloat(s, 1)
	if err != nil {
		return sexp.Position{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := sexp.GetFloat(s, 2)
	if err != nil {
		return sexp.Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return sexp.Position{X: x, Y: y}, nil
}
