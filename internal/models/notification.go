package models

import (
	"time"

	"github.com/google/uuid"
)

// Виды писем, отправляемых клиентам.
const (
	EmailSubscription    = "subscription"
	EmailInactivity      = "inactivity"
	EmailBirthday        = "birthday"
	EmailMotivational    = "motivational"
	EmailWorkoutReminder = "workout_reminder"
	EmailSessionReminder = "session_reminder"
)

// Статусы записи журнала рассылок.
const (
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
	EmailStatusPending = "pending"
)

// EmailLogEntry запись журнала рассылок: одна запись на каждую попытку
// отправки, независимо от результата. Записи никогда не изменяются.
type EmailLogEntry struct {
	ID           uuid.UUID `json:"id"`
	MemberID     uuid.UUID `json:"member_id"`
	EmailType    string    `json:"email_type"`
	SentAt       time.Time `json:"sent_at"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Subject      string    `json:"subject"`
	Content      string    `json:"content,omitempty"`
}

// DispatchJob задание на рассылку, публикуемое в очередь планировщиком
// или API по запросу персонала.
type DispatchJob struct {
	EmailType string      `json:"email_type"`
	MemberIDs []uuid.UUID `json:"member_ids,omitempty"` // Пустой список — все подходящие клиенты
	ForceSend bool        `json:"force_send"`
}

// DummyEmailSend используется для приёма запроса на рассылку из JSON-запроса.
type DummyEmailSend struct {
	EmailType string   `json:"email_type" validate:"required"`
	MemberIDs []string `json:"member_ids" validate:"omitempty,dive,uuid"`
	ForceSend bool     `json:"force_send" validate:"omitempty"`
}

// EmailLogFilter параметры фильтрации журнала рассылок.
type EmailLogFilter struct {
	EmailType string
	Status    string
	MemberID  *uuid.UUID
	Limit     int
	Offset    int
}

// DispatchResult сводка одного запуска рассылки. Носит справочный характер:
// достоверным отчётом являются записи журнала.
type DispatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
