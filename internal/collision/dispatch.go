package collision

// Side identifies one body of a contact pair.
type Side int

const (
	SideA Side = iota
	SideB
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Contact is the pair of categories of two bodies that began touching.
type Contact struct {
	A, B Category
}

// Category returns the category on the given side.
func (c Contact) Category(s Side) Category {
	if s == SideA {
		return c.A
	}
	return c.B
}

// Action is one consequence of a contact. The set of actions is closed.
type Action interface {
	isAction()
}

// Remove takes the body on Side out of the scene immediately.
type Remove struct {
	Side      Side
	Explosion bool
}

// Score adds Delta to the player's score.
type Score struct {
	Delta int
}

// ReplaceShip removes the ship on Side after the replacement delay, with an
// explosion, and spawns exactly one new ship.
type ReplaceShip struct {
	Side Side
}

func (Remove) isAction()      {}
func (Score) isAction()       {}
func (ReplaceShip) isAction() {}

// Dispatch evaluates every rule against the contact and returns the actions
// of all rules that match, in rule order. Rules are independent: a contact
// can match more than one.
func Dispatch(c Contact) []Action {
	var actions []Action

	// Ship hit: the other body is the projectile.
	if c.A == Ship || c.B == Ship {
		ship := SideA
		if c.A != Ship {
			ship = SideB
		}
		actions = append(actions,
			Remove{Side: ship.Other()},
			Score{Delta: 1},
			ReplaceShip{Side: ship},
		)
	}

	if c.A == Target {
		actions = append(actions, Remove{Side: SideB})
	}

	if c.B == Target {
		actions = append(actions, Remove{Side: SideA})
	}

	return actions
}
