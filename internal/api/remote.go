package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/config"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"

	"github.com/valyala/fasthttp"
)

var ErrRemoteStatus = errors.New("remote store returned non-success status")

type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRemoteStatus
}

// RemoteClient talks to the mock REST server that backs battle history
// when it is reachable.
type RemoteClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewRemoteClient(cfg *config.Config) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(cfg.RemoteBaseURL, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.RemoteSaveTimeout,
			WriteTimeout:        cfg.RemoteSaveTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *RemoteClient) BaseURL() string {
	return c.baseURL
}

// CreateBattle posts the result without any locally assigned id; the
// server picks its own.
func (c *RemoteClient) CreateBattle(ctx context.Context, result domain.BattleResult) error {
	result.ID = ""
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode battle: %w", err)
	}

	url := c.baseURL + constants.RemoteBattlesPath
	_, err = c.do(ctx, fasthttp.MethodPost, url, body)
	return err
}

// ListBattles returns every stored battle, newest first.
func (c *RemoteClient) ListBattles(ctx context.Context) ([]domain.BattleResult, error) {
	url := c.baseURL + constants.RemoteBattlesPath + "?_sort=date&_order=desc"
	body, err := c.do(ctx, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeBattleResults(body)
}

func (c *RemoteClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	// The in-flight request is abandoned, not cancelled, once the deadline
	// passes.
	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, &StatusError{Method: method, URL: url, StatusCode: status}
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}
