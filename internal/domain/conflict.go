package domain

import "time"

// Candidate describes a proposed calendar placement to be checked against
// the existing active appointment set. For update operations ExcludeID
// carries the appointment's own id so it never conflicts with itself.
type Candidate struct {
	ExcludeID  *int64
	StaffID    int64
	LocationID *int64
	RoomID     *int64
	StartTime  time.Time
	EndTime    time.Time
}

// FindConflicts returns every active appointment that collides with the
// candidate. Two bookings collide when their intervals overlap and they
// either occupy the same staff member at the same location, or the same room.
//
// A nil candidate location matches any location: location is not a
// discriminator when unset. A room collision requires both sides to resolve
// to a room. Pure function over its inputs - no I/O.
func FindConflicts(c Candidate, existing []*Appointment, rooms RoomMap) []*Appointment {
	var conflicts []*Appointment

	for _, apt := range existing {
		if c.ExcludeID != nil && apt.ID == *c.ExcludeID {
			continue
		}
		if !apt.IsActive() {
			continue
		}
		if !Overlaps(apt.StartTime, apt.EndTime, c.StartTime, c.EndTime) {
			continue
		}

		sameStaff := apt.StaffID == c.StaffID
		sameLocation := c.LocationID == nil ||
			(apt.LocationID != nil && *apt.LocationID == *c.LocationID)

		existingRoomID := rooms.RoomFor(apt.ServiceID)
		sameRoom := c.RoomID != nil && existingRoomID != nil && *existingRoomID == *c.RoomID

		if (sameStaff && sameLocation) || sameRoom {
			conflicts = append(conflicts, apt)
		}
	}

	return conflicts
}
