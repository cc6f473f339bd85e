// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/steward/lib/clock"
)

const testToken = "7000000001:AAtest-bot-secret"

type sentMessage struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// sendMessageServer records sendMessage calls and replies with the
// configured responses in order, repeating the last one.
func sendMessageServer(t *testing.T, responses ...string) (*Client, *[]sentMessage) {
	t.Helper()

	var mu sync.Mutex
	var received []sentMessage
	calls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("POST /bot"+testToken+"/sendMessage", func(writer http.ResponseWriter, request *http.Request) {
		var message sentMessage
		if err := json.NewDecoder(request.Body).Decode(&message); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		mu.Lock()
		received = append(received, message)
		index := calls
		if index >= len(responses) {
			index = len(responses) - 1
		}
		calls++
		mu.Unlock()
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(responses[index]))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Token: testToken, BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, &received
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	client, received := sendMessageServer(t, `{"ok": true, "result": {"message_id": 99}}`)

	if err := client.SendMessage(context.Background(), -1001234567890, "📰 digest body"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(*received) != 1 {
		t.Fatalf("server received %d messages, want 1", len(*received))
	}
	message := (*received)[0]
	if message.ChatID != -1001234567890 {
		t.Errorf("chat_id = %d, want -1001234567890", message.ChatID)
	}
	if message.Text != "📰 digest body" {
		t.Errorf("text = %q", message.Text)
	}
	if !message.DisableWebPagePreview {
		t.Error("disable_web_page_preview not set")
	}
}

func TestSendMessageChunksLongText(t *testing.T) {
	t.Parallel()

	client, received := sendMessageServer(t, `{"ok": true, "result": {}}`)

	text := strings.Repeat("one line of digest\n", 400) // ~7600 bytes
	if err := client.SendMessage(context.Background(), 42, text); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(*received) != 2 {
		t.Fatalf("server received %d messages, want 2", len(*received))
	}
	for i, message := range *received {
		if len(message.Text) > MaxMessageLength {
			t.Errorf("message %d is %d bytes, over the limit", i, len(message.Text))
		}
	}
	rebuilt := (*received)[0].Text + "\n" + (*received)[1].Text
	if rebuilt != text {
		t.Error("chunks do not reassemble the original text")
	}
}

func TestSendMessageAPIError(t *testing.T) {
	t.Parallel()

	client, _ := sendMessageServer(t, `{"ok": false, "error_code": 400, "description": "Bad Request: chat not found"}`)

	err := client.SendMessage(context.Background(), 42, "hello")
	if err == nil {
		t.Fatal("SendMessage succeeded against an API rejection")
	}
	var apiError *APIError
	if !errors.As(err, &apiError) {
		t.Fatalf("error = %T (%v), want *APIError", err, err)
	}
	if apiError.Code != 400 {
		t.Errorf("Code = %d, want 400", apiError.Code)
	}
	if apiError.Description != "Bad Request: chat not found" {
		t.Errorf("Description = %q", apiError.Description)
	}
}

func TestSendMessageFloodRetry(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Unix(1700000000, 0))
	flood := `{"ok": false, "error_code": 429, "description": "Too Many Requests: retry after 3", "parameters": {"retry_after": 3}}`
	client, received := sendMessageServer(t, flood, `{"ok": true, "result": {}}`)
	client.clock = fake

	done := make(chan error, 1)
	go func() { done <- client.SendMessage(context.Background(), 42, "hello") }()

	fake.WaitForTimers(1)
	fake.Advance(3 * time.Second)

	if err := <-done; err != nil {
		t.Fatalf("SendMessage after flood retry: %v", err)
	}
	if len(*received) != 2 {
		t.Errorf("server received %d requests, want the retry to make 2", len(*received))
	}
}

func TestSendMessageFloodRetryGivesUp(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Unix(1700000000, 0))
	flood := `{"ok": false, "error_code": 429, "description": "Too Many Requests: retry after 3", "parameters": {"retry_after": 3}}`
	client, received := sendMessageServer(t, flood)
	client.clock = fake

	done := make(chan error, 1)
	go func() { done <- client.SendMessage(context.Background(), 42, "hello") }()

	fake.WaitForTimers(1)
	fake.Advance(3 * time.Second)

	err := <-done
	var apiError *APIError
	if !errors.As(err, &apiError) || apiError.Code != 429 {
		t.Fatalf("error = %v, want the second 429 surfaced", err)
	}
	if len(*received) != 2 {
		t.Errorf("server received %d requests, want exactly 2 (no second retry)", len(*received))
	}
}

func TestSendMessageScrubsTokenFromTransportErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close() // force a connection error that embeds the URL

	client, err := NewClient(Config{Token: testToken, BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	sendErr := client.SendMessage(context.Background(), 42, "hello")
	if sendErr == nil {
		t.Fatal("SendMessage succeeded against a closed server")
	}
	if strings.Contains(sendErr.Error(), testToken) {
		t.Errorf("transport error leaks the bot token: %v", sendErr)
	}
	if !strings.Contains(sendErr.Error(), "***") {
		t.Errorf("transport error not scrubbed: %v", sendErr)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("NewClient accepted an empty token")
	}
}
