package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookEvent_FirstMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    InboundMessage
		wantOK  bool
	}{
		{
			name: "text message",
			payload: `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{
				"messaging_product":"whatsapp",
				"metadata":{"display_phone_number":"15550000000","phone_number_id":"867795156424720"},
				"messages":[{"id":"wamid.1","from":"919876543210","type":"text","text":{"body":"What are the fees?"}}]}}]}]}`,
			want:   InboundMessage{From: "919876543210", Body: "What are the fees?", PhoneNumberID: "867795156424720"},
			wantOK: true,
		},
		{
			name: "non-text message keeps sender",
			payload: `{"entry":[{"changes":[{"value":{"messages":[{"from":"911111111111","type":"image"}]}}]}]}`,
			want:    InboundMessage{From: "911111111111"},
			wantOK:  true,
		},
		{
			name:    "status callback without messages",
			payload: `{"entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.1","status":"delivered"}]}}]}]}`,
			wantOK:  false,
		},
		{
			name:    "empty entry",
			payload: `{"entry":[]}`,
			wantOK:  false,
		},
		{
			name:    "no changes",
			payload: `{"entry":[{"id":"1"}]}`,
			wantOK:  false,
		},
		{
			name:    "message without sender",
			payload: `{"entry":[{"changes":[{"value":{"messages":[{"type":"text","text":{"body":"hi"}}]}}]}]}`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var evt WebhookEvent
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &evt))

			got, ok := evt.FirstMessage()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebhookEvent_FirstMessage_Nil(t *testing.T) {
	var evt *WebhookEvent
	_, ok := evt.FirstMessage()
	assert.False(t, ok)
}

func TestParseInterest(t *testing.T) {
	for _, i := range Interests {
		got, ok := ParseInterest(string(i))
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}

	_, ok := ParseInterest("FEES")
	assert.False(t, ok)
	_, ok = ParseInterest("")
	assert.False(t, ok)
}

func TestDecodeWebhookEvent(t *testing.T) {
	event, err := DecodeWebhookEvent([]byte(`{"object":"whatsapp_business_account","entry":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "whatsapp_business_account", event.Object)

	_, err = DecodeWebhookEvent([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = DecodeWebhookEvent([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}
