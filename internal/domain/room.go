package domain

// Room represents a bookable room with limited concurrent capacity
type Room struct {
	ID       int64
	Name     string
	Capacity int
}

// EffectiveCapacity returns the usable capacity of the room.
// Missing or non-positive values fall back to the default of 1.
func (r *Room) EffectiveCapacity() int {
	if r == nil || r.Capacity < 1 {
		return DefaultRoomCapacity
	}
	return r.Capacity
}

// Service represents a bookable service. A service may be tied to a fixed
// room; several services may share the same room.
type Service struct {
	ID       int64
	Name     string
	Duration int // minutes
	RoomID   *int64
}

// RoomMap maps service ids to their room (nil = no room requirement)
type RoomMap map[int64]*int64

// BuildRoomMap строит отображение serviceID -> roomID по каталогу услуг
func BuildRoomMap(services []*Service) RoomMap {
	m := make(RoomMap, len(services))
	for _, svc := range services {
		m[svc.ID] = svc.RoomID
	}
	return m
}

// RoomFor returns the room id for the given service, or nil if the service
// is unknown or has no room.
func (m RoomMap) RoomFor(serviceID int64) *int64 {
	return m[serviceID]
}

// CapacityFor returns the effective capacity of the given room id,
// defaulting to 1 when the room is not present in the table.
func CapacityFor(rooms []*Room, roomID int64) int {
	for _, r := range rooms {
		if r.ID == roomID {
			return r.EffectiveCapacity()
		}
	}
	return DefaultRoomCapacity
}
