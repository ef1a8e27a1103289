package notify

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/config"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessaging struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeMessaging) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/p/messages/1", nil
}

func TestFCMSender_SendToTopic(t *testing.T) {
	client := &fakeMessaging{}
	s := &FCMSender{client: client}
	require.True(t, s.Configured())

	data := map[string]string{"orderId": "o-1"}
	err := s.SendToTopic(context.Background(), StoreTopic("pizza-roma"), "New order ORD-1", "€22.00 - DELIVERY", data)
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	m := client.sent[0]
	assert.Equal(t, "store-pizza-roma", m.Topic)
	assert.Equal(t, "New order ORD-1", m.Notification.Title)
	assert.Equal(t, "€22.00 - DELIVERY", m.Notification.Body)
	assert.Equal(t, data, m.Data)
}

func TestFCMSender_Errors(t *testing.T) {
	unconfigured, err := NewFCMSender(context.Background(), config.FCMConfig{})
	require.NoError(t, err)
	assert.False(t, unconfigured.Configured())
	assert.Error(t, unconfigured.SendToTopic(context.Background(), "store-x", "t", "b", nil))

	failing := &FCMSender{client: &fakeMessaging{err: errors.New("quota exceeded")}}
	err = failing.SendToTopic(context.Background(), "store-x", "t", "b", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store-x")
}
