package notify

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSender_Deliver(t *testing.T) {
	s := NewEmailSender("smtp.example.com", 587, "", "", "noreply@amac.gov.ng")

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)

	s.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := s.Deliver(context.Background(), Message{
		To:      Recipient{Email: "ada@example.com"},
		Subject: "Demand notice DN-2026-ABC123",
		Body:    "Amount due: NGN 150,000",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Demand notice DN-2026-ABC123\r\n")
	assert.Contains(t, gotMsg, "\r\n\r\nAmount due: NGN 150,000")
}
