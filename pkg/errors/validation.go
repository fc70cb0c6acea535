package errors

import "strings"

// MaxTitleLength bounds panel titles so UI surfaces and exports stay sane.
const MaxTitleLength = 128

// ValidateGrid validates the core grid parameters.
//
// The rules mirror the layout engine's hard requirements:
//   - unitsX must be at least 1
//   - cellWidth must be strictly positive
//   - spacing must not be negative
func ValidateGrid(unitsX int, cellWidth, spacing float64) error {
	if unitsX < 1 {
		return New(ErrCodeInvalidGrid, "grid must have at least 1 column, got %d", unitsX)
	}
	if cellWidth <= 0 {
		return New(ErrCodeInvalidGrid, "cell width must be positive, got %g", cellWidth)
	}
	if spacing < 0 {
		return New(ErrCodeInvalidGrid, "spacing must not be negative, got %g", spacing)
	}
	return nil
}

// ValidatePlacement validates a panel placement against a grid of unitsX columns.
//
// A valid placement satisfies:
//   - gridX >= 0 and gridY >= 0
//   - 1 <= widthUnits <= unitsX
//   - gridX + widthUnits <= unitsX
func ValidatePlacement(unitsX, gridX, gridY, widthUnits int) error {
	if gridX < 0 {
		return New(ErrCodeInvalidPlacement, "gridX must not be negative, got %d", gridX)
	}
	if gridY < 0 {
		return New(ErrCodeInvalidPlacement, "gridY must not be negative, got %d", gridY)
	}
	if widthUnits < 1 {
		return New(ErrCodeInvalidPlacement, "widthUnits must be at least 1, got %d", widthUnits)
	}
	if widthUnits > unitsX {
		return New(ErrCodeInvalidPlacement, "widthUnits %d exceeds grid columns %d", widthUnits, unitsX)
	}
	if gridX+widthUnits > unitsX {
		return New(ErrCodeInvalidPlacement, "panel [%d, %d) exceeds grid columns %d", gridX, gridX+widthUnits, unitsX)
	}
	return nil
}

// ValidateSpacing validates a spacing value in world units.
func ValidateSpacing(spacing float64) error {
	if spacing < 0 {
		return New(ErrCodeInvalidGrid, "spacing must not be negative, got %g", spacing)
	}
	return nil
}

// ValidateTitle validates a panel title for length and control characters.
func ValidateTitle(title string) error {
	if len(title) > MaxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", MaxTitleLength)
	}
	if strings.ContainsAny(title, "\x00\n\r") {
		return New(ErrCodeInvalidInput, "title contains invalid characters")
	}
	return nil
}
