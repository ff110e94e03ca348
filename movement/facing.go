package movement

import "fmt"

// Facing identifies one of the four directions a character can face.
// The zero value is FacingFront, the pose a character spawns with.
type Facing uint8

const (
	FacingFront Facing = iota
	FacingLeft
	FacingRight
	FacingBack
)

var facingNames = [...]string{
	FacingFront: "front",
	FacingLeft:  "left",
	FacingRight: "right",
	FacingBack:  "back",
}

func (f Facing) String() string {
	if int(f) < len(facingNames) {
		return facingNames[f]
	}
	return fmt.Sprintf("Facing(%d)", uint8(f))
}

// ParseFacing converts a facing name back into a Facing.
func ParseFacing(s string) (Facing, error) {
	for i, name := range facingNames {
		if name == s {
			return Facing(i), nil
		}
	}
	return FacingFront, fmt.Errorf("movement: unknown facing %q", s)
}

// WalkAnimation returns the animation key for walking toward heading,
// e.g. "misa-left-walk".
func WalkAnimation(character string, heading Facing) string {
	return character + "-" + heading.String() + "-walk"
}

// StillFrame returns the atlas frame shown while idle, e.g. "misa-back".
func StillFrame(character string, facing Facing) string {
	return character + "-" + facing.String()
}
