package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruxixa/chat-app/internal/application/auth"
	"github.com/ruxixa/chat-app/internal/application/conversation"
	"github.com/ruxixa/chat-app/internal/application/directory"
	"github.com/ruxixa/chat-app/internal/application/message"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/handlers"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/middleware"
	"github.com/ruxixa/chat-app/internal/infrastructure/security"
)

const adminSecret = "test-admin-secret"

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	log := zerolog.Nop()
	store := newMemStore()
	convos := convoRepo{store}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})

	verifyUC := auth.NewVerifyCredentials(store, hasher)
	registerUC := auth.NewRegisterUser(store, hasher)

	router := NewRouter(RouterConfig{
		AuthHandler:          handlers.NewAuthHandler(nil, log),
		UsersHandler:         handlers.NewUsersHandler(directory.NewListUsers(store), directory.NewGetUser(store), directory.NewGetProfile(store, convos), log),
		ConversationsHandler: handlers.NewConversationsHandler(conversation.NewGetOrCreate(convos, store), message.NewSend(store, convos), message.NewList(store, convos), log),
		AdminHandler:         handlers.NewAdminHandler(registerUC, nil, log),
		RequireAuth:          middleware.NewBasicAuthenticator(verifyUC, nil, log).Handler,
		RequireAdmin:         middleware.RequireAdminSecret(adminSecret),
		Log:                  log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, username, password string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	fields := map[string]json.RawMessage{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &fields))
	}
	return resp, fields
}

func createUser(t *testing.T, srv *httptest.Server, username, password string) int64 {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
		"fullName": "Test " + username,
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/admin/users", bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", adminSecret)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var profile struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	return profile.UserID
}

func TestAuthGate(t *testing.T) {
	srv, _ := newTestServer(t)
	createUser(t, srv, "alice", "password1")

	protected := []struct{ method, path string }{
		{http.MethodPost, "/login"},
		{http.MethodGet, "/api/@me"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/1"},
		{http.MethodGet, "/api/conversations/1/messages"},
	}
	for _, ep := range protected {
		// No credential header.
		resp, fields := doJSON(t, ep.method, srv.URL+ep.path, "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s without credentials", ep.method, ep.path)
		assert.Contains(t, string(fields["message"]), "authentication")

		// Present but invalid.
		resp, _ = doJSON(t, ep.method, srv.URL+ep.path, "alice", "wrong", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s with bad credentials", ep.method, ep.path)
	}
}

func TestLoginProbe(t *testing.T) {
	srv, _ := newTestServer(t)
	createUser(t, srv, "alice", "password1")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/login", "alice", "password1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestConversationRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceID := createUser(t, srv, "alice", "password1")
	bobID := createUser(t, srv, "bob", "password2")

	// First contact creates the conversation.
	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": bobID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var convoID int64
	require.NoError(t, json.Unmarshal(fields["conversation_id"], &convoID))

	// Repeating the call, and reversing the pair, returns the same identity.
	resp, fields = doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": bobID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var again int64
	require.NoError(t, json.Unmarshal(fields["conversation_id"], &again))
	assert.Equal(t, convoID, again)

	resp, fields = doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "bob", "password2",
		map[string]int64{"user1Id": bobID, "user2Id": aliceID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(fields["conversation_id"], &again))
	assert.Equal(t, convoID, again)

	// Append one message.
	messagesURL := fmt.Sprintf("%s/api/conversations/%d/messages", srv.URL, convoID)
	resp, fields = doJSON(t, http.MethodPost, messagesURL, "alice", "password1",
		map[string]any{"senderId": aliceID, "receiverId": bobID, "messageText": "hi"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var msgID int64
	require.NoError(t, json.Unmarshal(fields["message_id"], &msgID))
	assert.Positive(t, msgID)

	// Read it back in order.
	req, err := http.NewRequest(http.MethodGet, messagesURL, nil)
	require.NoError(t, err)
	req.SetBasicAuth("bob", "password2")
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var msgs []struct {
		MessageID   int64  `json:"message_id"`
		SenderID    int64  `json:"sender_id"`
		MessageText string `json:"message_text"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, msgID, msgs[0].MessageID)
	assert.Equal(t, aliceID, msgs[0].SenderID)
	assert.Equal(t, "hi", msgs[0].MessageText)
}

func TestMessageOrdering(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceID := createUser(t, srv, "alice", "password1")
	bobID := createUser(t, srv, "bob", "password2")

	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": bobID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var convoID int64
	require.NoError(t, json.Unmarshal(fields["conversation_id"], &convoID))

	messagesURL := fmt.Sprintf("%s/api/conversations/%d/messages", srv.URL, convoID)
	const n = 7
	for i := 0; i < n; i++ {
		resp, _ := doJSON(t, http.MethodPost, messagesURL, "alice", "password1",
			map[string]any{"senderId": aliceID, "receiverId": bobID, "messageText": fmt.Sprintf("msg %d", i)})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, messagesURL, nil)
	require.NoError(t, err)
	req.SetBasicAuth("alice", "password1")
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()

	var msgs []struct {
		MessageID   int64  `json:"message_id"`
		MessageText string `json:"message_text"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&msgs))
	require.Len(t, msgs, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("msg %d", i), msgs[i].MessageText)
		if i > 0 {
			assert.Greater(t, msgs[i].MessageID, msgs[i-1].MessageID)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceID := createUser(t, srv, "alice", "password1")
	bobID := createUser(t, srv, "bob", "password2")

	// Empty conversation body.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Self pair.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": aliceID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown counterpart.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": 9999999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Incomplete message body.
	respC, fields := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": bobID})
	require.Equal(t, http.StatusCreated, respC.StatusCode)
	var convoID int64
	require.NoError(t, json.Unmarshal(fields["conversation_id"], &convoID))
	messagesURL := fmt.Sprintf("%s/api/conversations/%d/messages", srv.URL, convoID)

	resp, _ = doJSON(t, http.MethodPost, messagesURL, "alice", "password1", map[string]any{"senderId": aliceID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Sender outside the conversation.
	eveID := createUser(t, srv, "eve", "password3")
	resp, _ = doJSON(t, http.MethodPost, messagesURL, "eve", "password3",
		map[string]any{"senderId": eveID, "receiverId": bobID, "messageText": "intrusion"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown conversation.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/conversations/424242/messages", "alice", "password1",
		map[string]any{"senderId": aliceID, "receiverId": bobID, "messageText": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Malformed path id.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/conversations/notanumber/messages", "alice", "password1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserDirectory(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceID := createUser(t, srv, "alice", "password1")
	createUser(t, srv, "bob", "password2")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/users", nil)
	require.NoError(t, err)
	req.SetBasicAuth("alice", "password1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, string(raw), "password", "credential data must never be serialized")

	// Single lookup.
	respOne, fields := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/users/%d", srv.URL, aliceID), "alice", "password1", nil)
	assert.Equal(t, http.StatusOK, respOne.StatusCode)
	assert.Equal(t, `"alice"`, string(fields["username"]))

	// Unknown user.
	respMissing, _ := doJSON(t, http.MethodGet, srv.URL+"/api/users/9999999", "alice", "password1", nil)
	assert.Equal(t, http.StatusNotFound, respMissing.StatusCode)
}

func TestMe(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceID := createUser(t, srv, "alice", "password1")
	bobID := createUser(t, srv, "bob", "password2")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", "alice", "password1",
		map[string]int64{"user1Id": aliceID, "user2Id": bobID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respMe, meFields := doJSON(t, http.MethodGet, srv.URL+"/api/@me", "alice", "password1", nil)
	require.Equal(t, http.StatusOK, respMe.StatusCode)

	var user struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(meFields["user"], &user))
	assert.Equal(t, aliceID, user.UserID)
	assert.Equal(t, "alice", user.Username)

	var convos []map[string]any
	require.NoError(t, json.Unmarshal(meFields["conversations"], &convos))
	assert.Len(t, convos, 1)
}

func TestAdminGate(t *testing.T) {
	srv, _ := newTestServer(t)

	body, err := json.Marshal(map[string]string{"username": "u-" + uuid.NewString()[:8], "password": "password1"})
	require.NoError(t, err)

	// Wrong secret.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/admin/users", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", "nope")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Duplicate username conflicts.
	createUser(t, srv, "alice", "password1")
	dup, err := json.Marshal(map[string]string{"username": "alice", "password": "password2"})
	require.NoError(t, err)
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/admin/users", bytes.NewReader(dup))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", adminSecret)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
