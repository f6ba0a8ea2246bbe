package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Member представляет клиента фитнес-клуба.
type Member struct {
	ID                  uuid.UUID  `json:"id"`
	UserUID             *uuid.UUID `json:"user_uid,omitempty"` // Связанная учётная запись портала (может отсутствовать)
	FullName            string     `json:"full_name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	SubscriptionDueDate time.Time  `json:"subscription_due_date"`
	Birthday            *time.Time `json:"birthday,omitempty"`
	LastCheckinDate     *time.Time `json:"last_checkin_date,omitempty"`
	MembershipType      string     `json:"membership_type"` // basic, premium, vip или student
	IsActive            bool       `json:"is_active"`
	Notes               string     `json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// DummyMember используется для приёма данных клиента из JSON-запроса,
// прежде чем конвертировать их в Member. Даты приходят в виде строк
// в формате 2006-01-02 и парсятся вручную.
type DummyMember struct {
	FullName            string `json:"full_name" validate:"required"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"omitempty"`
	SubscriptionDueDate string `json:"subscription_due_date" validate:"required"`
	Birthday            string `json:"birthday" validate:"omitempty"`
	MembershipType      string `json:"membership_type" validate:"omitempty,oneof=basic premium vip student"`
	IsActive            *bool  `json:"is_active" validate:"omitempty"`
	Notes               string `json:"notes" validate:"omitempty"`
}

// dateOnly обнуляет время, оставляя календарную дату.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween возвращает количество календарных дней от from до to,
// отрицательное, если to раньше from.
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// DaysUntilDue возвращает число дней до окончания абонемента относительно today.
// Значение отрицательное, если срок уже прошёл.
func (m Member) DaysUntilDue(today time.Time) int {
	return daysBetween(today, m.SubscriptionDueDate)
}

// IsDueSoon сообщает, что абонемент истекает в ближайшие 5 дней (включая сегодня).
func (m Member) IsDueSoon(today time.Time) bool {
	d := m.DaysUntilDue(today)
	return d >= 0 && d <= 5
}

// IsOverdue сообщает, что срок оплаты абонемента прошёл.
func (m Member) IsOverdue(today time.Time) bool {
	return m.DaysUntilDue(today) < 0
}

// DaysSinceCheckin возвращает число дней с последнего посещения.
// ok == false, если клиент ещё ни разу не отмечался.
func (m Member) DaysSinceCheckin(today time.Time) (days int, ok bool) {
	if m.LastCheckinDate == nil {
		return 0, false
	}
	return daysBetween(*m.LastCheckinDate, today), true
}

// IsInactive сообщает, что клиент не посещал зал больше 7 дней.
// Клиент без единого посещения неактивным не считается.
func (m Member) IsInactive(today time.Time) bool {
	days, ok := m.DaysSinceCheckin(today)
	return ok && days > 7
}

// IsBirthdayToday сравнивает месяц и день рождения с сегодняшней датой, год игнорируется.
func (m Member) IsBirthdayToday(today time.Time) bool {
	if m.Birthday == nil {
		return false
	}
	return m.Birthday.Month() == today.Month() && m.Birthday.Day() == today.Day()
}

// Age возвращает возраст клиента. ok == false, если дата рождения не указана
// или год рождения заведомо фиктивный (до 1900).
func (m Member) Age(today time.Time) (age int, ok bool) {
	if m.Birthday == nil || m.Birthday.Year() <= 1900 {
		return 0, false
	}
	return today.Year() - m.Birthday.Year(), true
}

// FirstName возвращает первое слово полного имени для обращения в письмах.
func (m Member) FirstName() string {
	fields := strings.Fields(m.FullName)
	if len(fields) == 0 {
		return m.FullName
	}
	return fields[0]
}

// MemberDashboard данные личного кабинета клиента.
type MemberDashboard struct {
	Member            Member             `json:"member"`
	DaysUntilDue      int                `json:"days_until_due"`
	IsDueSoon         bool               `json:"is_due_soon"`
	IsOverdue         bool               `json:"is_overdue"`
	CurrentPlan       *MemberWorkoutPlan `json:"current_plan,omitempty"`
	RecentWorkouts    []WorkoutLog       `json:"recent_workouts"`
	UpcomingSessions  []TrainingSession  `json:"upcoming_sessions"`
	TotalWorkouts     int                `json:"total_workouts"`
	ThisMonthWorkouts int                `json:"this_month_workouts"`
	WorkoutStreak     int                `json:"workout_streak"`
}

// MemberStats агрегированная статистика по клиентам клуба.
type MemberStats struct {
	TotalMembers    int            `json:"total_members"`
	ActiveMembers   int            `json:"active_members"`
	InactiveMembers int            `json:"inactive_members"`
	DueSoon         int            `json:"due_soon"`
	Overdue         int            `json:"overdue"`
	BirthdaysToday  int            `json:"birthdays_today"`
	NewThisMonth    int            `json:"new_this_month"`
	MembershipTypes map[string]int `json:"membership_types"`
}
