package pisignage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		ServerType: ServerTypeOpenSource,
		Host:       "ignored",
		Username:   "admin@example.com",
		Password:   "hunter2",
		Timeout:    2 * time.Second,
	}, nil)
	client.baseURL = server.URL + "/api"
	return client, server
}

func TestLoginCachesToken(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/session", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "admin@example.com", payload["email"])
		assert.Equal(t, true, payload["getToken"])
		_, _ = io.WriteString(w, `{"success": true, "token": "tok-123"}`)
	}))

	require.NoError(t, client.Login(context.Background()))
	assert.Equal(t, "tok-123", client.Token())
}

func TestLoginBadCredentials(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": false, "stat_message": "Invalid username or password"}`)
	}))

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Empty(t, client.Token(), "no token may be cached after a failed login")
}

func TestLoginOTPFlow(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		switch payload["otp"] {
		case nil:
			_, _ = io.WriteString(w, `{"success": false, "otpRequired": true}`)
		case "000000":
			_, _ = io.WriteString(w, `{"success": false, "stat_message": "Invalid OTP"}`)
		case "424242":
			_, _ = io.WriteString(w, `{"success": true, "token": "tok-otp"}`)
		}
	}))

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.True(t, IsOTPRequired(err))
	assert.False(t, IsAuthError(err))

	err = client.LoginWithOTP(context.Background(), "000000")
	require.Error(t, err)
	assert.True(t, IsOTPInvalid(err), "a rejected OTP must be distinct from bad credentials")
	assert.False(t, IsAuthError(err))
	assert.Empty(t, client.Token())

	require.NoError(t, client.LoginWithOTP(context.Background(), "424242"))
	assert.Equal(t, "tok-otp", client.Token())
}

func TestConnectErrorClassified(t *testing.T) {
	client := NewClient(ClientConfig{
		ServerType: ServerTypeOpenSource,
		Host:       "127.0.0.1",
		Port:       1, // nothing listens here
		Username:   "a",
		Password:   "b",
		Timeout:    time.Second,
	}, nil)

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectError(err))
}

func TestListPlayersShapes(t *testing.T) {
	shapes := map[string]string{
		"bare_array":   `[{"_id": "p1", "name": "Lobby"}]`,
		"envelope":     `{"success": true, "data": [{"_id": "p1", "name": "Lobby"}]}`,
		"paged":        `{"success": true, "data": {"objects": [{"_id": "p1", "name": "Lobby"}]}}`,
		"double_paged": `{"success": true, "data": {"data": {"objects": [{"_id": "p1", "name": "Lobby"}]}}}`,
	}

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/session" {
					_, _ = io.WriteString(w, `{"success": true, "token": "tok"}`)
					return
				}
				require.Equal(t, "/api/players", r.URL.Path)
				require.Equal(t, "tok", r.Header.Get("x-access-token"))
				_, _ = io.WriteString(w, body)
			}))

			players, err := client.ListPlayers(context.Background())
			require.NoError(t, err)
			require.Len(t, players, 1)
			assert.Equal(t, "p1", players[0].ID)
			assert.Equal(t, "Lobby", players[0].Name)
		})
	}
}

func TestExpiredTokenRetriesOnce(t *testing.T) {
	logins := 0
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/session":
			logins++
			_, _ = io.WriteString(w, `{"success": true, "token": "tok-fresh"}`)
		case "/api/players":
			if r.Header.Get("x-access-token") != "tok-fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `[]`)
		}
	}))
	client.setToken("tok-stale")

	_, err := client.ListPlayers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, logins)
}

func TestSetGroupPlaylistDeploys(t *testing.T) {
	var saved Group
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/session":
			_, _ = io.WriteString(w, `{"success": true, "token": "tok"}`)
		case r.URL.Path == "/api/groups/g1" && r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"success": true, "data": {"_id": "g1", "name": "Lobby", "playlists": [{"name": "welcome"}]}}`)
		case r.URL.Path == "/api/playlists":
			_, _ = io.WriteString(w, `{"success": true, "data": [
				{"name": "welcome", "assets": [{"filename": "old.mp4"}]},
				{"name": "promo", "assets": [{"filename": "promo.mp4"}, {"filename": "promo2.jpg"}], "templateName": "wide.html"}
			]}`)
		case r.URL.Path == "/api/groups/g1" && r.Method == http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			_, _ = io.WriteString(w, `{"success": true}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	require.NoError(t, client.SetGroupPlaylist(context.Background(), "g1", "promo", true))

	require.Len(t, saved.Playlists, 1)
	assert.Equal(t, "promo", saved.Playlists[0].Name)
	assert.True(t, saved.Deploy)
	assert.ElementsMatch(t, []string{"promo.mp4", "promo2.jpg", "__promo.json", "wide.html"}, saved.Assets)
}

func TestSetGroupPlaylistRejectsTVOff(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected, got %s %s", r.Method, r.URL.Path)
	}))

	err := client.SetGroupPlaylist(context.Background(), "g1", TVOffPlaylist, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TV_OFF")
}

func TestGetErrorEnvelopeIsAnError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/session":
			_, _ = io.WriteString(w, `{"success": true, "token": "tok"}`)
		case r.URL.Path == "/api/groups/missing" && r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"success": false, "stat_message": "group not found"}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	_, err := client.GetGroup(context.Background(), "missing")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "group not found", apiErr.Message)

	// a playlist change on an unknown group must fail instead of saving a
	// fresh group with an empty id
	err = client.SetGroupPlaylist(context.Background(), "missing", "promo", true)
	require.Error(t, err)
}

func TestSetTVPowerInvertsStatus(t *testing.T) {
	var body map[string]any
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/session" {
			_, _ = io.WriteString(w, `{"success": true, "token": "tok"}`)
			return
		}
		require.Equal(t, "/api/pitv/p1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"success": true}`)
	}))

	require.NoError(t, client.SetTVPower(context.Background(), "p1", true))
	assert.Equal(t, false, body["status"], "status=false powers the TV on")

	require.NoError(t, client.SetTVPower(context.Background(), "p1", false))
	assert.Equal(t, true, body["status"])
}

func TestMediaControlRejectsUnknownAction(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/session" {
			_, _ = io.WriteString(w, `{"success": true, "token": "tok"}`)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/playlistmedia/") {
			_, _ = io.WriteString(w, `{"success": true}`)
			return
		}
	}))

	assert.NoError(t, client.MediaControl(context.Background(), "p1", MediaActionForward))
	assert.Error(t, client.MediaControl(context.Background(), "p1", "eject"))
}

func TestHostedBaseURL(t *testing.T) {
	cfg := ClientConfig{ServerType: ServerTypeHosted, Host: "acme"}
	assert.Equal(t, "https://acme.pisignage.com/api", cfg.BaseURL())

	cfg = ClientConfig{ServerType: ServerTypeOpenSource, Host: "10.0.0.5"}
	assert.Equal(t, "http://10.0.0.5:3000/api", cfg.BaseURL())

	cfg = ClientConfig{ServerType: ServerTypeOpenSource, Host: "signage.local", Port: 8443, UseSSL: true}
	assert.Equal(t, "https://signage.local:8443/api", cfg.BaseURL())
}
