package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SMSSender posts messages to an HTTP SMS gateway.
type SMSSender struct {
	baseURL string
	apiKey  string
	sender  string
	client  *http.Client
}

func NewSMSSender(baseURL, apiKey, sender string, client *http.Client) *SMSSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &SMSSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		sender:  sender,
		client:  client,
	}
}

func (s *SMSSender) Channel() Channel { return ChannelSMS }

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"sms"`
	APIKey  string `json:"api_key"`
}

func (s *SMSSender) Deliver(ctx context.Context, msg Message) error {
	body, err := json.Marshal(smsRequest{
		To:      msg.To.Phone,
		From:    s.sender,
		Message: msg.Body,
		APIKey:  s.apiKey,
	})
	if err != nil {
		return fmt.Errorf("encoding sms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/sms/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
