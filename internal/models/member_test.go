package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestMember_DueStatus(t *testing.T) {
	today := date(2024, time.June, 10)

	tests := []struct {
		name          string
		dueDate       time.Time
		wantDays      int
		wantDueSoon   bool
		wantOverdue   bool
	}{
		{name: "due today", dueDate: date(2024, time.June, 10), wantDays: 0, wantDueSoon: true},
		{name: "due in 3 days", dueDate: date(2024, time.June, 13), wantDays: 3, wantDueSoon: true},
		{name: "due in exactly 5 days", dueDate: date(2024, time.June, 15), wantDays: 5, wantDueSoon: true},
		{name: "due in 6 days is not soon", dueDate: date(2024, time.June, 16), wantDays: 6},
		{name: "overdue yesterday", dueDate: date(2024, time.June, 9), wantDays: -1, wantOverdue: true},
		{name: "long overdue", dueDate: date(2024, time.January, 1), wantDays: -161, wantOverdue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Member{SubscriptionDueDate: tt.dueDate}
			assert.Equal(t, tt.wantDays, m.DaysUntilDue(today))
			assert.Equal(t, tt.wantDueSoon, m.IsDueSoon(today))
			assert.Equal(t, tt.wantOverdue, m.IsOverdue(today))
		})
	}
}

func TestMember_DueSoonAndOverdueAreMutuallyExclusive(t *testing.T) {
	today := date(2024, time.June, 10)
	for offset := -10; offset <= 10; offset++ {
		m := Member{SubscriptionDueDate: today.AddDate(0, 0, offset)}
		dueSoon := m.IsDueSoon(today)
		overdue := m.IsOverdue(today)
		assert.False(t, dueSoon && overdue, "offset %d", offset)
		if m.DaysUntilDue(today) > 5 {
			assert.False(t, dueSoon || overdue, "offset %d", offset)
		}
	}
}

func TestMember_InactivityStatus(t *testing.T) {
	today := date(2024, time.June, 10)

	t.Run("never checked in", func(t *testing.T) {
		m := Member{}
		_, ok := m.DaysSinceCheckin(today)
		assert.False(t, ok)
		assert.False(t, m.IsInactive(today))
	})

	t.Run("checked in 7 days ago is still active", func(t *testing.T) {
		m := Member{LastCheckinDate: datePtr(2024, time.June, 3)}
		days, ok := m.DaysSinceCheckin(today)
		assert.True(t, ok)
		assert.Equal(t, 7, days)
		assert.False(t, m.IsInactive(today))
	})

	t.Run("checked in 8 days ago is inactive", func(t *testing.T) {
		m := Member{LastCheckinDate: datePtr(2024, time.June, 2)}
		assert.True(t, m.IsInactive(today))
	})
}

func TestMember_IsBirthdayToday(t *testing.T) {
	m := Member{Birthday: datePtr(1990, time.June, 15)}

	assert.True(t, m.IsBirthdayToday(date(2024, time.June, 15)))
	assert.False(t, m.IsBirthdayToday(date(2024, time.June, 14)))
	assert.False(t, m.IsBirthdayToday(date(2024, time.July, 15)))
	assert.False(t, Member{}.IsBirthdayToday(date(2024, time.June, 15)))
}

func TestMember_Age(t *testing.T) {
	today := date(2024, time.June, 15)

	age, ok := Member{Birthday: datePtr(1990, time.June, 15)}.Age(today)
	assert.True(t, ok)
	assert.Equal(t, 34, age)

	_, ok = Member{Birthday: datePtr(1850, time.June, 15)}.Age(today)
	assert.False(t, ok)

	_, ok = Member{}.Age(today)
	assert.False(t, ok)
}

func TestMember_FirstName(t *testing.T) {
	assert.Equal(t, "Anna", Member{FullName: "Anna Petrova"}.FirstName())
	assert.Equal(t, "Anna", Member{FullName: "Anna"}.FirstName())
	assert.Equal(t, "", Member{FullName: ""}.FirstName())
}
