package domain

// CountRoomOverlaps counts active appointments occupying the candidate's
// room during the candidate interval. Returns 0 when the candidate has no
// room requirement.
func CountRoomOverlaps(c Candidate, existing []*Appointment, rooms RoomMap) int {
	if c.RoomID == nil {
		return 0
	}

	count := 0
	for _, apt := range existing {
		if c.ExcludeID != nil && apt.ID == *c.ExcludeID {
			continue
		}
		if !apt.IsActive() {
			continue
		}
		existingRoomID := rooms.RoomFor(apt.ServiceID)
		if existingRoomID == nil || *existingRoomID != *c.RoomID {
			continue
		}
		if Overlaps(apt.StartTime, apt.EndTime, c.StartTime, c.EndTime) {
			count++
		}
	}
	return count
}

// RoomAtCapacity reports whether admitting the candidate would exceed the
// room's capacity. Capacity is consulted only at admission/update time;
// reducing a room's capacity never evicts existing bookings.
func RoomAtCapacity(c Candidate, existing []*Appointment, rooms RoomMap, allRooms []*Room) (occupied int, atCapacity bool) {
	if c.RoomID == nil {
		return 0, false
	}
	capacity := CapacityFor(allRooms, *c.RoomID)
	occupied = CountRoomOverlaps(c, existing, rooms)
	return occupied, occupied >= capacity
}
