package models

import (
	"time"

	"github.com/google/uuid"
)

// Coach представляет тренера клуба.
type Coach struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Specializations []string  `json:"specializations"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

// DummyCoach используется для приёма данных тренера из JSON-запроса.
type DummyCoach struct {
	FullName        string   `json:"full_name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"omitempty"`
	Specializations []string `json:"specializations" validate:"omitempty"`
	IsAvailable     *bool    `json:"is_available" validate:"omitempty"`
}

// CoachSchedule слот еженедельного расписания тренера.
// День недели хранится по соглашению Monday=0 .. Sunday=6.
type CoachSchedule struct {
	ID          uuid.UUID `json:"id"`
	CoachID     uuid.UUID `json:"coach_id"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"` // Формат 15:04
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	MaxClients  int       `json:"max_clients"`
}

// DummyCoachSchedule используется для приёма слота расписания из JSON-запроса.
type DummyCoachSchedule struct {
	DayOfWeek   *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	IsAvailable *bool  `json:"is_available" validate:"omitempty"`
	MaxClients  int    `json:"max_clients" validate:"required,min=1"`
}

// SlotAvailability остаток мест в слоте расписания на конкретную дату.
type SlotAvailability struct {
	ScheduleID     uuid.UUID `json:"schedule_id"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	AvailableSlots int       `json:"available_slots"`
	MaxClients     int       `json:"max_clients"`
}

// WeekdayIndex переводит time.Weekday в соглашение Monday=0 .. Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
