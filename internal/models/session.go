package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы групповых и персональных тренировок.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
	SessionNoShow    = "no_show"
)

// TrainingSession запись о тренировке с тренером на конкретную дату и время.
type TrainingSession struct {
	ID                  uuid.UUID `json:"id"`
	CoachID             uuid.UUID `json:"coach_id"`
	Title               string    `json:"title"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"start_time"` // Формат 15:04
	EndTime             string    `json:"end_time"`
	MaxParticipants     int       `json:"max_participants"`
	Status              string    `json:"status"`
	CurrentParticipants int       `json:"current_participants"`
}

// IsFull сообщает, что свободных мест на тренировке не осталось.
func (s TrainingSession) IsFull() bool {
	return s.CurrentParticipants >= s.MaxParticipants
}

// DummyTrainingSession используется для приёма данных тренировки из JSON-запроса.
type DummyTrainingSession struct {
	CoachID         string `json:"coach_id" validate:"required,uuid"`
	Title           string `json:"title" validate:"required"`
	Date            string `json:"date" validate:"required"` // Формат 2006-01-02
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	MaxParticipants int    `json:"max_participants" validate:"required,min=1"`
}
