package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/notify"
)

var payer = notify.Recipient{Name: "Ada", Email: "ada@example.com", Phone: "+2348030000000"}

func TestDispatcher_Send(t *testing.T) {
	errSMTP := errors.New("connection refused")

	type testCase struct {
		name      string
		channel   notify.Channel
		to        notify.Recipient
		setupMock func(email, sms *notify.MockSender)
		wantErrIs error
	}

	tests := []testCase{
		{
			name:    "AllChannels",
			channel: notify.ChannelAll,
			to:      payer,
			setupMock: func(email, sms *notify.MockSender) {
				email.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)
				sms.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "SkipsChannelWithoutContact",
			channel: notify.ChannelAll,
			to:      notify.Recipient{Name: "Ada", Phone: payer.Phone},
			setupMock: func(email, sms *notify.MockSender) {
				sms.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "RetriesTransientFailure",
			channel: notify.ChannelEmail,
			to:      payer,
			setupMock: func(email, sms *notify.MockSender) {
				gomock.InOrder(
					email.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errSMTP),
					email.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil),
				)
			},
		},
		{
			name:    "GivesUpAfterThreeAttempts",
			channel: notify.ChannelEmail,
			to:      payer,
			setupMock: func(email, sms *notify.MockSender) {
				email.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errSMTP).Times(3)
			},
			wantErrIs: errSMTP,
		},
		{
			name:      "NoReachableChannel",
			channel:   notify.ChannelSMS,
			to:        notify.Recipient{Email: payer.Email},
			setupMock: func(email, sms *notify.MockSender) {},
			wantErrIs: notify.ErrNoRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			email := notify.NewMockSender(ctrl)
			sms := notify.NewMockSender(ctrl)
			email.EXPECT().Channel().Return(notify.ChannelEmail).AnyTimes()
			sms.EXPECT().Channel().Return(notify.ChannelSMS).AnyTimes()
			tt.setupMock(email, sms)

			d := notify.NewDispatcher([]notify.Sender{email, sms}, notify.WithInterval(time.Millisecond))

			err := d.Send(context.Background(), tt.channel, notify.Message{To: tt.to, Subject: "Payment confirmed", Body: "Thank you"})

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestSMSSender_Deliver(t *testing.T) {
	var got map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sms/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := notify.NewSMSSender(srv.URL+"/", "key-123", "AMAC", srv.Client())

	err := s.Deliver(context.Background(), notify.Message{To: payer, Body: "Receipt AMAC/2026/HOTEL/000123"})
	require.NoError(t, err)

	assert.Equal(t, "+2348030000000", got["to"])
	assert.Equal(t, "AMAC", got["from"])
	assert.Equal(t, "key-123", got["api_key"])
	assert.Equal(t, "Receipt AMAC/2026/HOTEL/000123", got["sms"])
}

func TestSMSSender_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid sender id", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := notify.NewSMSSender(srv.URL, "key", "AMAC", srv.Client())

	err := s.Deliver(context.Background(), notify.Message{To: payer, Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender id")
}
