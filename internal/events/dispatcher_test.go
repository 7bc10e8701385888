package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventEventCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventEventCreated}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserSignedUp}))

	assert.Equal(t, []EventType{EventEventCreated}, got)
}

func TestDispatcherRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventRegistrationConfirmed, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventRegistrationConfirmed, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRegistrationConfirmed})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
