package entity

import "github.com/google/uuid"

// Gender is the sex of a student and the restriction a room takes from its first occupant.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

type Room struct {
	BaseNoDelete
	BuildingID  uuid.UUID `db:"building_id"`
	Number      string    `db:"number"`
	Floor       int       `db:"floor"`
	Capacity    int       `db:"place"` // room_types.place
	PersonCount int       `db:"person_count"`
	IsFull      bool      `db:"is_full"`
	Gender      Gender    `db:"gender"`
}

func (r *Room) FreePlaces() int {
	if r.PersonCount >= r.Capacity {
		return 0
	}
	return r.Capacity - r.PersonCount
}

// Admits reports whether a student of gender g may be seated with the
// current occupants. An empty room admits anyone.
func (r *Room) Admits(g Gender) bool {
	return r.Gender == GenderUnset || r.Gender == g
}

// Reserve takes one place for a student of gender g. It returns false and
// leaves the room untouched when the room is already full.
func (r *Room) Reserve(g Gender) bool {
	if r.PersonCount >= r.Capacity {
		return false
	}
	r.PersonCount++
	r.IsFull = r.PersonCount == r.Capacity
	if r.Gender == GenderUnset {
		r.Gender = g
	}
	return true
}

// Release frees one place. The last occupant leaving clears the room gender.
func (r *Room) Release() {
	if r.PersonCount > 0 {
		r.PersonCount--
	}
	r.IsFull = r.PersonCount == r.Capacity
	if r.PersonCount == 0 {
		r.Gender = GenderUnset
	}
}
