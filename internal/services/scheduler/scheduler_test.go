package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkosheleva/gym-automation/internal/models"
	"github.com/mkosheleva/gym-automation/internal/rabbitmq"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_publishJobs(t *testing.T) {
	channel := new(MockChannel)
	service := NewSchedulerService(channel, newNoopLogger())

	var published []models.DispatchJob
	channel.On("Publish", rabbitmq.ExchangeName, "dispatch", false, false, mock.AnythingOfType("amqp.Publishing")).
		Run(func(args mock.Arguments) {
			msg := args.Get(4).(amqp.Publishing)
			var job models.DispatchJob
			require.NoError(t, json.Unmarshal(msg.Body, &job))
			published = append(published, job)
		}).
		Return(nil).
		Times(3)

	service.publishJobs([]string{
		models.EmailSubscription,
		models.EmailBirthday,
		models.EmailInactivity,
	})

	require.Len(t, published, 3)
	assert.Equal(t, models.EmailSubscription, published[0].EmailType)
	assert.Equal(t, models.EmailBirthday, published[1].EmailType)
	assert.Equal(t, models.EmailInactivity, published[2].EmailType)
	for _, job := range published {
		assert.Empty(t, job.MemberIDs)
		assert.False(t, job.ForceSend)
	}

	channel.AssertExpectations(t)
}

func TestSchedulerService_publishJobs_ErrorDoesNotStop(t *testing.T) {
	channel := new(MockChannel)
	service := NewSchedulerService(channel, newNoopLogger())

	channel.On("Publish", rabbitmq.ExchangeName, "dispatch", false, false, mock.Anything).
		Return(errors.New("broker down")).Once()
	channel.On("Publish", rabbitmq.ExchangeName, "dispatch", false, false, mock.Anything).
		Return(nil).Once()

	// Ошибка публикации первого задания не мешает второму
	service.publishJobs([]string{models.EmailSubscription, models.EmailBirthday})

	channel.AssertExpectations(t)
}

func TestSchedulerService_NewSchedulerService(t *testing.T) {
	channel := new(MockChannel)
	logger := newNoopLogger()

	service := NewSchedulerService(channel, logger)

	assert.NotNil(t, service)
	assert.Equal(t, logger, service.log)
}
