package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutPlan программа тренировок, составленная тренером.
type WorkoutPlan struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DifficultyLevel string     `json:"difficulty_level"` // beginner, intermediate или advanced
	DurationWeeks   int        `json:"duration_weeks"`
	SessionsPerWeek int        `json:"sessions_per_week"`
	CoachID         *uuid.UUID `json:"coach_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MemberWorkoutPlan назначение программы тренировок клиенту на период.
type MemberWorkoutPlan struct {
	ID            uuid.UUID `json:"id"`
	MemberID      uuid.UUID `json:"member_id"`
	WorkoutPlanID uuid.UUID `json:"workout_plan_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsActive      bool      `json:"is_active"`
	Plan          *WorkoutPlan `json:"plan,omitempty"`
}

// DummyWorkoutPlan используется для приёма программы тренировок из JSON-запроса.
type DummyWorkoutPlan struct {
	Name            string `json:"name" validate:"required,min=2"`
	Description     string `json:"description" validate:"omitempty"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
	DurationWeeks   int    `json:"duration_weeks" validate:"required,min=1"`
	SessionsPerWeek int    `json:"sessions_per_week" validate:"required,min=1"`
	CoachID         string `json:"coach_id" validate:"omitempty,uuid"`
}

// DummyPlanAssignment используется для приёма назначения программы клиенту.
type DummyPlanAssignment struct {
	WorkoutPlanID string `json:"workout_plan_id" validate:"required,uuid"`
	StartDate     string `json:"start_date" validate:"required"` // Формат 2006-01-02
	EndDate       string `json:"end_date" validate:"required"`   // Формат 2006-01-02
}

// WorkoutLog запись клиента о выполненной тренировке за день.
type WorkoutLog struct {
	ID              uuid.UUID `json:"id"`
	MemberID        uuid.UUID `json:"member_id"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	Completed       bool      `json:"completed"`
}

// DummyWorkoutLog используется для приёма записи о тренировке из JSON-запроса.
type DummyWorkoutLog struct {
	Date            string `json:"date" validate:"required"` // Формат 2006-01-02
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1"`
	Notes           string `json:"notes" validate:"omitempty"`
	Completed       *bool  `json:"completed" validate:"omitempty"`
}
