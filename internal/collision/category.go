// Package collision classifies physics contacts by body category and decides
// what each contact does to the game.
package collision

import "fmt"

// Mask is a set of categories encoded as bit flags.
type Mask uint32

// Category tags a physics body. It is assigned once when the node is created.
type Category uint8

const (
	Bullet Category = iota + 1
	Ship
	Target
)

// Bit values are part of the contact filtering contract; Target keeps its
// historic value of 2<<2.
const (
	BulletBit Mask = 1 << 0
	ShipBit   Mask = 1 << 1
	TargetBit Mask = 2 << 2
)

// Categories lists every category in declaration order.
var Categories = []Category{Bullet, Ship, Target}

// Mask returns the bit flag for c. Unknown categories map to the empty mask.
func (c Category) Mask() Mask {
	switch c {
	case Bullet:
		return BulletBit
	case Ship:
		return ShipBit
	case Target:
		return TargetBit
	default:
		return 0
	}
}

func (c Category) String() string {
	switch c {
	case Bullet:
		return "bullet"
	case Ship:
		return "ship"
	case Target:
		return "target"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Has reports whether c is in the mask.
func (m Mask) Has(c Category) bool {
	return m&c.Mask() != 0
}

// FromMask returns the category whose bit equals m exactly.
func FromMask(m Mask) (Category, bool) {
	for _, c := range Categories {
		if c.Mask() == m {
			return c, true
		}
	}
	return 0, false
}

// MaskOf builds a mask containing all given categories.
func MaskOf(cats ...Category) Mask {
	var m Mask
	for _, c := range cats {
		m |= c.Mask()
	}
	return m
}

// DefaultContactTest returns the contact-test mask a freshly created body of
// category c listens on.
func DefaultContactTest(c Category) Mask {
	switch c {
	case Bullet:
		return MaskOf(Ship, Target)
	case Ship:
		return MaskOf(Bullet)
	case Target:
		return MaskOf(Target)
	default:
		return 0
	}
}

// ShouldReport reports whether two bodies touching should produce a contact
// event: either body's category must be in the other body's contact-test mask.
func ShouldReport(catA Category, testA Mask, catB Category, testB Mask) bool {
	return catA.Mask()&testB != 0 || catB.Mask()&testA != 0
}
