package trackerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/warelog/scanpost/internal/integrations/tracker"
	"github.com/warelog/scanpost/internal/models"
)

type Client struct {
	baseURL string
	// датовые вызовы живут дольше, чем проверка доступности
	datac *http.Client
	pingc *http.Client
}

func New(baseURL string, pingTimeout, dataTimeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9080"
	}
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	if dataTimeout <= 0 {
		dataTimeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		datac:   &http.Client{Timeout: dataTimeout},
		pingc:   &http.Client{Timeout: pingTimeout},
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	UserName  string `json:"user_name"`
	Role      string `json:"role"`
	RoleLevel int    `json:"role_level"`
}

type submitResp struct {
	Note string `json:"note,omitempty"`
}

// wireRecord matches the service's record shape. Datetime may carry an
// explicit offset, come offset-naive, or use a space separator.
type wireRecord struct {
	ID       uint64 `json:"id"`
	UserName string `json:"user_name"`
	BoxID    string `json:"boxid"`
	TTN      string `json:"ttn"`
	Datetime string `json:"datetime"`
	Note     string `json:"note,omitempty"`

	// The reason travels under several historical names.
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (w wireRecord) toRecord() models.Record {
	rec := models.Record{
		ID:           w.ID,
		OperatorName: w.UserName,
		BoxID:        w.BoxID,
		ShipmentID:   w.TTN,
		Note:         w.Note,
	}
	if t, ok := models.ParseRemoteTime(w.Datetime); ok {
		rec.RecordedAt = &t
	}
	return rec
}

func (w wireRecord) reason() string {
	for _, s := range []string{w.Error, w.Reason, w.Note} {
		if s != "" {
			return s
		}
	}
	return models.UnspecifiedReason
}

func (c *Client) Login(ctx context.Context, username, password string) (tracker.LoginResult, error) {
	body, err := json.Marshal(loginReq{Username: username, Password: password})
	if err != nil {
		return tracker.LoginResult{}, errors.Wrap(err, "marshal login")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/login", "", bytes.NewReader(body))
	if err != nil {
		return tracker.LoginResult{}, err
	}
	resp, err := c.datac.Do(req)
	if err != nil {
		return tracker.LoginResult{}, errors.Wrap(err, "do login")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return tracker.LoginResult{}, tracker.ErrUnauthorized
	}
	if resp.StatusCode/100 != 2 {
		return tracker.LoginResult{}, fmt.Errorf("tracker login http %d", resp.StatusCode)
	}

	var lr loginResp
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return tracker.LoginResult{}, errors.Wrap(err, "decode login")
	}
	return tracker.LoginResult{
		Token:        lr.Token,
		OperatorName: lr.UserName,
		RoleName:     lr.Role,
		RoleLevel:    lr.RoleLevel,
	}, nil
}

func (c *Client) SubmitRecord(ctx context.Context, token string, rec models.Record) (tracker.SubmitResult, error) {
	payload := wireRecord{
		UserName: rec.OperatorName,
		BoxID:    rec.BoxID,
		TTN:      rec.ShipmentID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return tracker.SubmitResult{}, errors.Wrap(err, "marshal record")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/records", token, bytes.NewReader(body))
	if err != nil {
		return tracker.SubmitResult{}, err
	}
	resp, err := c.datac.Do(req)
	if err != nil {
		return tracker.SubmitResult{}, errors.Wrap(err, "do submit")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "submit"); err != nil {
		return tracker.SubmitResult{}, err
	}

	var sr submitResp
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return tracker.SubmitResult{}, errors.Wrap(err, "decode submit")
	}
	return tracker.SubmitResult{Note: sr.Note}, nil
}

func (c *Client) ListRecords(ctx context.Context, token string) ([]models.Record, error) {
	var items []wireRecord
	if err := c.getJSON(ctx, "/api/records", token, &items); err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(items))
	for _, it := range items {
		out = append(out, it.toRecord())
	}
	return out, nil
}

func (c *Client) ListErrors(ctx context.Context, token string) ([]models.ErrorRecord, error) {
	var items []wireRecord
	if err := c.getJSON(ctx, "/api/errors", token, &items); err != nil {
		return nil, err
	}
	out := make([]models.ErrorRecord, 0, len(items))
	for _, it := range items {
		out = append(out, models.ErrorRecord{Record: it.toRecord(), Reason: it.reason()})
	}
	return out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, token string, id uint64) error {
	return c.del(ctx, fmt.Sprintf("/api/records/%d", id), token)
}

func (c *Client) DeleteError(ctx context.Context, token string, id uint64) error {
	return c.del(ctx, fmt.Sprintf("/api/errors/%d", id), token)
}

func (c *Client) ClearRecords(ctx context.Context, token string) error {
	return c.del(ctx, "/api/records", token)
}

func (c *Client) ClearErrors(ctx context.Context, token string) error {
	return c.del(ctx, "/api/errors", token)
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/healthz", "", nil)
	if err != nil {
		return err
	}
	resp, err := c.pingc.Do(req)
	if err != nil {
		return errors.Wrap(err, "do ping")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("tracker ping http %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	resp, err := c.datac.Do(req)
	if err != nil {
		return errors.Wrap(err, "do get "+path)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode "+path)
	}
	return nil
}

func (c *Client) del(ctx context.Context, path, token string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, token, nil)
	if err != nil {
		return err
	}
	resp, err := c.datac.Do(req)
	if err != nil {
		return errors.Wrap(err, "do delete "+path)
	}
	defer resp.Body.Close()
	return checkStatus(resp, path)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	u.Path = path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return tracker.ErrUnauthorized
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("tracker %s http %d", op, resp.StatusCode)
	}
	return nil
}
