// Package api is the authenticated HTTP client for the remote CMS API. Every
// authenticated request carries the bearer token and the X-Role header; a 401
// from any endpoint tears the session down through the unauthorized hook.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cmsadmin/pkg/domain"
)

// ErrUnauthorized tags session-expiry failures so callers can tell them
// apart from ordinary rejections.
var ErrUnauthorized = errors.New("unauthorized")

// genericDetail is what the operator sees when the server sent no detail.
const genericDetail = "request failed"

// APIError is a non-2xx response carrying the server's detail message when
// one was present.
type APIError struct {
	Status int
	Detail string

	sessionExpired bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// Unwrap exposes ErrUnauthorized for 401s on authenticated calls. A 401 on
// the login endpoint itself is a credential rejection, not session expiry,
// and does not match.
func (e *APIError) Unwrap() error {
	if e.sessionExpired {
		return ErrUnauthorized
	}
	return nil
}

// Credentials is the token/role pair attached to authenticated requests.
type Credentials struct {
	Token string
	Role  domain.Role
}

// CredentialSource supplies the current credentials. The store implements
// it, falling back to its persisted snapshots when its own fields are empty.
type CredentialSource interface {
	Credentials() Credentials
}

// Client calls the CMS API over HTTP.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	creds          CredentialSource
	onUnauthorized func(detail string)
}

// NewClient constructs a CMS API client.
func NewClient(baseURL string, timeout time.Duration, creds CredentialSource) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
	}
}

// OnUnauthorized registers the hook invoked when an authenticated call comes
// back 401. The hook runs before the error is returned to the caller.
func (c *Client) OnUnauthorized(fn func(detail string)) {
	c.onUnauthorized = fn
}

// ---- auth ----

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	payload := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": strings.TrimSpace(password),
	}
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", false, payload, &resp); err != nil {
		return domain.Session{}, err
	}
	user := resp.User
	return domain.Session{Token: resp.AccessToken, User: &user, Role: user.Role}, nil
}

// RegisterRequest carries the multipart fields of POST /auth/register.
type RegisterRequest struct {
	FullName  string
	Email     string
	Password  string
	Phone     string
	Birthdate string // yyyy-mm-dd
	Gender    string
}

type registerResponse struct {
	User    domain.User `json:"user"`
	Message string      `json:"message"`
}

// Register creates an account. avatar may be nil; when set it is sent as the
// optional avatar file part.
func (c *Client) Register(ctx context.Context, req RegisterRequest, avatarName string, avatar io.Reader) (domain.User, error) {
	fields := map[string]string{
		"full_name": req.FullName,
		"email":     req.Email,
		"password":  req.Password,
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.Birthdate != "" {
		fields["birthdate"] = req.Birthdate
	}
	if req.Gender != "" {
		fields["gender"] = req.Gender
	}
	var resp registerResponse
	err := c.doMultipart(ctx, http.MethodPost, "/auth/register", false, fields, "avatar", avatarName, avatar, &resp)
	if err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

// ---- profile ----

// Me fetches the caller's profile.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", true, nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ProfilePatch is a partial self-service profile update.
type ProfilePatch struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Birthdate *string `json:"birthdate,omitempty"`
	Gender    *string `json:"gender,omitempty"`
}

// UpdateMe applies a partial profile patch.
func (c *Client) UpdateMe(ctx context.Context, patch ProfilePatch) (domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodPut, "/users/me", true, patch, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UploadAvatar replaces the caller's avatar (multipart file part).
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (domain.User, error) {
	var user domain.User
	err := c.doMultipart(ctx, http.MethodPut, "/users/me/avatar", true, nil, "file", filename, r, &user)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	payload := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	return c.doJSON(ctx, http.MethodPut, "/users/me/password", true, payload, nil)
}

// ---- users / roles ----

// ListRoles returns the role catalog.
func (c *Client) ListRoles(ctx context.Context) ([]domain.RoleInfo, error) {
	var roles []domain.RoleInfo
	if err := c.doJSON(ctx, http.MethodGet, "/roles", true, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole reassigns a user's role. The server addresses users by email
// and roles by their numeric id.
func (c *Client) AssignRole(ctx context.Context, email string, roleID int) error {
	payload := map[string]any{"user_id": email, "role_id": roleID}
	return c.doJSON(ctx, http.MethodPut, "/roles/assign", true, payload, nil)
}

// ListUsersOptions filter and page the user listing.
type ListUsersOptions struct {
	RoleFilter string
	Page       int
	Limit      int
}

// ListUsers returns one page of users.
func (c *Client) ListUsers(ctx context.Context, opts ListUsersOptions) (domain.UserPage, error) {
	q := make([]string, 0, 3)
	if opts.RoleFilter != "" {
		q = append(q, "role_filter="+url.QueryEscape(opts.RoleFilter))
	}
	if opts.Page > 0 {
		q = append(q, fmt.Sprintf("page=%d", opts.Page))
	}
	if opts.Limit > 0 {
		q = append(q, fmt.Sprintf("limit=%d", opts.Limit))
	}
	path := "/users"
	if len(q) > 0 {
		path += "?" + strings.Join(q, "&")
	}
	var page domain.UserPage
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &page); err != nil {
		return domain.UserPage{}, err
	}
	return page, nil
}

// ---- content types ----

// ListContentTypes returns the caller-owned content types.
func (c *Client) ListContentTypes(ctx context.Context) ([]domain.ContentType, error) {
	var types []domain.ContentType
	if err := c.doJSON(ctx, http.MethodGet, "/content_types", true, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// GetContentType fetches a single type by id, whoever owns it.
func (c *Client) GetContentType(ctx context.Context, id string) (domain.ContentType, error) {
	var ct domain.ContentType
	if err := c.doJSON(ctx, http.MethodGet, "/content_types/"+id, true, nil, &ct); err != nil {
		return domain.ContentType{}, err
	}
	return ct, nil
}

// CreateContentType registers a new schema. The id is client-minted.
func (c *Client) CreateContentType(ctx context.Context, ct domain.ContentType) (domain.ContentType, error) {
	var out domain.ContentType
	if err := c.doJSON(ctx, http.MethodPost, "/content_types", true, ct, &out); err != nil {
		return domain.ContentType{}, err
	}
	return out, nil
}

// ContentTypePatch is a partial type update; a non-nil Schema replaces the
// whole field list.
type ContentTypePatch struct {
	Name   *string            `json:"name,omitempty"`
	Schema *[]domain.FieldDef `json:"schema,omitempty"`
}

// UpdateContentType applies a partial patch and returns the server's record.
func (c *Client) UpdateContentType(ctx context.Context, id string, patch ContentTypePatch) (domain.ContentType, error) {
	var out domain.ContentType
	if err := c.doJSON(ctx, http.MethodPut, "/content_types/"+id, true, patch, &out); err != nil {
		return domain.ContentType{}, err
	}
	return out, nil
}

// DeleteContentType removes a schema; the server cascades its entries.
func (c *Client) DeleteContentType(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/content_types/"+id, true, nil, nil)
}

// ---- entries ----

// ListEntries returns entries, optionally filtered by content type.
func (c *Client) ListEntries(ctx context.Context, contentTypeID string) ([]domain.Entry, error) {
	path := "/entries"
	if contentTypeID != "" {
		path += "?content_type_id=" + url.QueryEscape(contentTypeID)
	}
	var entries []domain.Entry
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EntryCreate carries POST /entries; the id is client-minted.
type EntryCreate struct {
	ID            string         `json:"id"`
	ContentTypeID string         `json:"content_type_id"`
	Title         string         `json:"title,omitempty"`
	Fields        map[string]any `json:"fields"`
}

// CreateEntry creates a DRAFT entry.
func (c *Client) CreateEntry(ctx context.Context, req EntryCreate) (domain.Entry, error) {
	var out domain.Entry
	if err := c.doJSON(ctx, http.MethodPost, "/entries", true, req, &out); err != nil {
		return domain.Entry{}, err
	}
	return out, nil
}

// EntryPatch is a partial entry update.
type EntryPatch struct {
	Title  *string             `json:"title,omitempty"`
	Fields *map[string]any     `json:"fields,omitempty"`
	Status *domain.EntryStatus `json:"status,omitempty"`
}

// UpdateEntry applies a partial patch and returns the server's record.
func (c *Client) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (domain.Entry, error) {
	var out domain.Entry
	if err := c.doJSON(ctx, http.MethodPut, "/entries/"+id, true, patch, &out); err != nil {
		return domain.Entry{}, err
	}
	return out, nil
}

// PublishEntry transitions a draft to PUBLISHED.
func (c *Client) PublishEntry(ctx context.Context, id string) (domain.Entry, error) {
	var out domain.Entry
	if err := c.doJSON(ctx, http.MethodPost, "/entries/"+id+"/publish", true, nil, &out); err != nil {
		return domain.Entry{}, err
	}
	return out, nil
}

// DeleteEntry removes an entry.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/entries/"+id, true, nil, nil)
}

// ---- api keys ----

// ListAPIKeys returns all keys for the caller's space.
func (c *Client) ListAPIKeys(ctx context.Context) ([]domain.APIKey, error) {
	var keys []domain.APIKey
	if err := c.doJSON(ctx, http.MethodGet, "/api-keys", true, nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateAPIKey asks the server to mint a new key; all token material is
// server-generated.
func (c *Client) CreateAPIKey(ctx context.Context, name, description string) (domain.APIKey, error) {
	payload := map[string]string{"name": name}
	if description != "" {
		payload["description"] = description
	}
	var out domain.APIKey
	if err := c.doJSON(ctx, http.MethodPost, "/api-keys", true, payload, &out); err != nil {
		return domain.APIKey{}, err
	}
	return out, nil
}

// DeleteAPIKey revokes a key.
func (c *Client) DeleteAPIKey(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api-keys/%d", id), true, nil, nil)
}

// ---- theme ----

// GetTheme fetches the visual theme settings.
func (c *Client) GetTheme(ctx context.Context) (domain.Theme, error) {
	var theme domain.Theme
	if err := c.doJSON(ctx, http.MethodGet, "/api/theme", true, nil, &theme); err != nil {
		return domain.Theme{}, err
	}
	return theme, nil
}

// PutTheme replaces the visual theme settings.
func (c *Client) PutTheme(ctx context.Context, theme domain.Theme) (domain.Theme, error) {
	var out domain.Theme
	if err := c.doJSON(ctx, http.MethodPut, "/api/theme", true, theme, &out); err != nil {
		return domain.Theme{}, err
	}
	return out, nil
}

// ---- plumbing ----

func (c *Client) doJSON(ctx context.Context, method, path string, authed bool, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, authed, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, authed bool, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, authed, out)
}

func (c *Client) do(req *http.Request, authed bool, out any) error {
	if authed {
		creds := c.creds.Credentials()
		if creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}
		if role := domain.NormalizeRole(creds.Role); role != "" {
			req.Header.Set("X-Role", string(role))
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if authed && resp.StatusCode == http.StatusUnauthorized {
		detail := decodeDetail(resp.Body, "session expired or token missing")
		if c.onUnauthorized != nil {
			c.onUnauthorized(detail)
		}
		return &APIError{Status: resp.StatusCode, Detail: detail, sessionExpired: true}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body, genericDetail)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeDetail pulls the server's {detail} message; a missing or malformed
// body is tolerated and yields the fallback.
func decodeDetail(r io.Reader, fallback string) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return fallback
}
