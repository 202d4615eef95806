package pisignage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ServerTypeHosted     = "hosted"
	ServerTypeOpenSource = "open_source"

	DefaultServerPort = 3000

	tokenHeader = "x-access-token"
)

// API is the PiSignage server contract the rest of the bridge depends on.
// Implemented by Client and by the in-memory TestAPI.
type API interface {
	Login(ctx context.Context) error
	LoginWithOTP(ctx context.Context, otp string) error
	Logout(ctx context.Context) error
	ResumeSession(ctx context.Context, token string) error
	Token() string

	ListPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, id string) (*Player, error)
	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListPlaylists(ctx context.Context) ([]Playlist, error)
	GetPlaylist(ctx context.Context, name string) (*Playlist, error)
	ListLabels(ctx context.Context) ([]Label, error)
	ListScreens(ctx context.Context) ([]Screen, error)

	CreatePlaylist(ctx context.Context, name string) error
	SavePlaylist(ctx context.Context, playlist Playlist) error
	AddPlaylistFile(ctx context.Context, playlistName, filename string) error
	CreatePlayer(ctx context.Context, player Player) error
	UpdatePlayer(ctx context.Context, player Player) error
	DeletePlayer(ctx context.Context, id string) error
	SaveGroup(ctx context.Context, group Group) error
	DeleteGroup(ctx context.Context, id string) error
	CreateLabel(ctx context.Context, label Label) error
	DeleteLabel(ctx context.Context, id string) error

	SetTVPower(ctx context.Context, playerID string, on bool) error
	MediaControl(ctx context.Context, playerID, action string) error
	PlayPlaylistOnce(ctx context.Context, playerID, playlist string) error
	SetGroupPlaylist(ctx context.Context, groupID, playlistName string, deploy bool) error
}

// ClientConfig describes how to reach a PiSignage server. Hosted accounts
// live at https://<host>.pisignage.com/api where host is the account name;
// open-source installs are plain host:port.
type ClientConfig struct {
	ServerType string
	Host       string
	Port       uint
	UseSSL     bool
	Username   string
	Password   string
	Timeout    time.Duration
}

// BaseURL resolves the API root for the configured server type.
func (cfg ClientConfig) BaseURL() string {
	if cfg.ServerType == ServerTypeHosted {
		return fmt.Sprintf("https://%s.pisignage.com/api", cfg.Host)
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultServerPort
	}
	return fmt.Sprintf("%s://%s:%d/api", scheme, cfg.Host, port)
}

// Client is the authenticated HTTP client. Token state is process-wide and
// guarded, so a Client is safe to share.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.Mutex
	token string
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL(),
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "pisignage_client")),
	}
}

// Token returns the cached session token, or "" when not logged in.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login performs POST /session and caches the returned token. Accounts with
// two-factor auth enabled fail with OTPRequiredError; retry with
// LoginWithOTP.
func (c *Client) Login(ctx context.Context) error {
	return c.login(ctx, "")
}

// LoginWithOTP completes a two-factor login.
func (c *Client) LoginWithOTP(ctx context.Context, otp string) error {
	return c.login(ctx, otp)
}

func (c *Client) login(ctx context.Context, otp string) error {
	payload := map[string]any{
		"email":    c.username,
		"password": c.password,
		"getToken": true,
	}
	if otp != "" {
		payload["otp"] = otp
	}

	env, err := c.doRaw(ctx, http.MethodPost, "/session", payload, false)
	if env != nil && env.OTPRequired {
		return &OTPRequiredError{}
	}
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return classifyAuthFailure(apiErr.Message, otp)
		}
		return err
	}
	if env.Success != nil && !*env.Success {
		return classifyAuthFailure(env.StatMessage, otp)
	}
	if env.Token == "" {
		// some servers nest the token under data
		var data struct {
			Token string `json:"token"`
		}
		if len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &data)
		}
		if data.Token == "" {
			return classifyAuthFailure(env.StatMessage, otp)
		}
		env.Token = data.Token
	}

	c.setToken(env.Token)
	c.logger.Debug("login ok")
	return nil
}

// classifyAuthFailure keeps OTP rejections distinct from credential
// rejections so callers can re-prompt for the right value.
func classifyAuthFailure(message, otp string) error {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "otp") || strings.Contains(lower, "one-time") {
		if otp == "" {
			return &OTPRequiredError{}
		}
		return &OTPInvalidError{Message: message}
	}
	if otp != "" {
		return &OTPInvalidError{Message: message}
	}
	return &AuthError{Message: message}
}

// Logout invalidates the session server-side and drops the cached token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doRaw(ctx, http.MethodDelete, "/session", nil, true)
	c.setToken("")
	return err
}

// ResumeSession revalidates a previously issued token via POST /token-session.
func (c *Client) ResumeSession(ctx context.Context, token string) error {
	c.setToken(token)
	_, err := c.doRaw(ctx, http.MethodPost, "/token-session", nil, true)
	if err != nil {
		c.setToken("")
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return &AuthError{Message: apiErr.Message}
		}
		return err
	}
	return nil
}

// do performs an authenticated call and decodes the payload into out. A 401
// mid-session triggers one transparent re-login and retry.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	env, err := c.doAuthRetry(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	payload := []byte(env.Data)
	if len(payload) == 0 {
		payload = env.raw
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("pisignage: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doAuthRetry(ctx context.Context, method, path string, body any) (*envelope, error) {
	if c.Token() == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}
	env, err := c.doRaw(ctx, method, path, body, true)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		c.logger.Debug("token rejected, re-authenticating")
		c.setToken("")
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		return c.doRaw(ctx, method, path, body, true)
	}
	return env, err
}

// envelope is apiEnvelope plus the raw body, for servers that answer with
// bare payloads instead of the success wrapper.
type envelope struct {
	apiEnvelope
	raw json.RawMessage
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any, withToken bool) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		if token := c.Token(); token != "" {
			req.Header.Set(tokenHeader, token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	env := &envelope{raw: raw}
	// tolerate non-JSON bodies on success statuses with empty payloads
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env.apiEnvelope)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return env, &APIError{StatusCode: resp.StatusCode, Message: env.StatMessage}
	}
	if env.Success != nil && !*env.Success {
		return env, &APIError{StatusCode: resp.StatusCode, Message: env.StatMessage}
	}
	return env, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ConnectError{Err: err}
	}
	return &ConnectError{Err: err}
}

// ensure interface compliance
var _ API = (*Client)(nil)
