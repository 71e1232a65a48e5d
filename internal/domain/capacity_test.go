package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func roomOccupant(id int64, serviceID int64) *Appointment {
	return &Appointment{
		ID:        id,
		StaffID:   id,
		ServiceID: serviceID,
		StartTime: ts(10, 0),
		EndTime:   ts(11, 0),
		Status:    StatusConfirmed,
	}
}

func TestRoomAtCapacity_Boundary(t *testing.T) {
	rooms := RoomMap{10: ptr.Ptr(int64(7))}
	allRooms := []*Room{{ID: 7, Name: "Massage Room", Capacity: 2}}

	c := Candidate{
		StaffID:   99,
		RoomID:    ptr.Ptr(int64(7)),
		StartTime: ts(10, 30),
		EndTime:   ts(11, 30),
	}

	// Один занятый при вместимости 2 - допускается
	occupied, atCapacity := RoomAtCapacity(c, []*Appointment{roomOccupant(1, 10)}, rooms, allRooms)
	assert.Equal(t, 1, occupied)
	assert.False(t, atCapacity)

	// Два занятых при вместимости 2 - отказ
	occupied, atCapacity = RoomAtCapacity(c,
		[]*Appointment{roomOccupant(1, 10), roomOccupant(2, 10)}, rooms, allRooms)
	assert.Equal(t, 2, occupied)
	assert.True(t, atCapacity)
}

func TestRoomAtCapacity_DefaultCapacityOne(t *testing.T) {
	rooms := RoomMap{10: ptr.Ptr(int64(7))}

	c := Candidate{
		StaffID:   99,
		RoomID:    ptr.Ptr(int64(7)),
		StartTime: ts(10, 30),
		EndTime:   ts(11, 30),
	}

	// Кабинет не описан в каталоге - вместимость по умолчанию 1
	_, atCapacity := RoomAtCapacity(c, []*Appointment{roomOccupant(1, 10)}, rooms, nil)
	assert.True(t, atCapacity)

	// Нулевая вместимость тоже трактуется как 1
	zeroCap := []*Room{{ID: 7, Capacity: 0}}
	_, atCapacity = RoomAtCapacity(c, []*Appointment{roomOccupant(1, 10)}, rooms, zeroCap)
	assert.True(t, atCapacity)
}

func TestRoomAtCapacity_NoRoomRequirement(t *testing.T) {
	c := Candidate{
		StaffID:   99,
		StartTime: ts(10, 30),
		EndTime:   ts(11, 30),
	}

	occupied, atCapacity := RoomAtCapacity(c, []*Appointment{roomOccupant(1, 10)}, RoomMap{}, nil)
	assert.Zero(t, occupied)
	assert.False(t, atCapacity)
}

func TestCountRoomOverlaps_IgnoresOtherRoomsAndInactive(t *testing.T) {
	rooms := RoomMap{
		10: ptr.Ptr(int64(7)),
		20: ptr.Ptr(int64(8)),
		30: nil,
	}

	cancelled := roomOccupant(3, 10)
	cancelled.Status = StatusCancelled

	existing := []*Appointment{
		roomOccupant(1, 10), // тот же кабинет
		roomOccupant(2, 20), // другой кабинет
		roomOccupant(4, 30), // услуга без кабинета
		cancelled,           // отменена
	}

	c := Candidate{
		StaffID:   99,
		RoomID:    ptr.Ptr(int64(7)),
		StartTime: ts(10, 0),
		EndTime:   ts(11, 0),
	}

	assert.Equal(t, 1, CountRoomOverlaps(c, existing, rooms))
}

func TestCountRoomOverlaps_ExcludesOwnID(t *testing.T) {
	rooms := RoomMap{10: ptr.Ptr(int64(7))}

	c := Candidate{
		ExcludeID: ptr.Ptr(int64(1)),
		StaffID:   99,
		RoomID:    ptr.Ptr(int64(7)),
		StartTime: ts(10, 0),
		EndTime:   ts(11, 0),
	}

	assert.Zero(t, CountRoomOverlaps(c, []*Appointment{roomOccupant(1, 10)}, rooms))
}
