package eventbus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func TestNATSBridge_PublishesEnvelope(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	bridge := NewNATSBridge(pub, "dicevault")

	payload, err := json.Marshal(ledger.AdminWithdrawal{Admin: "admin-a", Amount: 5})
	require.NoError(t, err)

	m := Message{
		Record: events.Record{ID: 42, Type: ledger.EventAdminWithdrawal, Payload: payload, CreatedAt: time.Unix(1_700_000_000, 0).UTC()},
		Event:  ledger.AdminWithdrawal{Admin: "admin-a", Amount: 5},
	}

	var sent []byte
	pub.On("Publish", "dicevault.events.admin_withdrawal", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]byte) }).
		Return(nil).Once()

	bridge.Handle(t.Context(), m)
	pub.AssertExpectations(t)

	var env Envelope
	require.NoError(t, json.Unmarshal(sent, &env))
	assert.Equal(t, int64(42), env.Sequence)
	assert.Equal(t, "admin_withdrawal", env.EventType)
	assert.Equal(t, "dicevault", env.SourceService)
	assert.NotEmpty(t, env.EventID)
	assert.JSONEq(t, string(payload), string(env.Payload))
}

func TestNATSBridge_ErrorIsLoggedNotPropagated(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("down"))

	bridge := NewNATSBridge(pub, "dicevault")
	m := Message{Record: events.Record{ID: 1, Type: ledger.EventDiceRolled, Payload: json.RawMessage(`{}`)}}

	require.NotPanics(t, func() { bridge.Handle(t.Context(), m) })
	require.Error(t, bridge.publish(m))
}
