// Package voterclient is the Go data layer for a voter-roll dashboard: a
// thin API client plus the page cache, session state and form rules a
// front-end needs. A Client owns all mutable state and is meant to be driven
// from a single goroutine (the UI loop); racing fetches for one key are not
// deduplicated and the last response wins.
package voterclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/VoterDesk/VD-Backend/internal/voters"
)

type Client struct {
	baseURL  string
	http     *http.Client
	cache    *PageCache
	pageSize int
	session  *Session
}

// New builds a client against baseURL. sessionPath is where the
// authenticated account is persisted between runs; empty disables
// persistence. No request timeout is set: a hung request stays pending until
// its context is done.
func New(baseURL, sessionPath string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Jar: jar},
		cache:    NewPageCache(),
		pageSize: voters.DefaultPageSize,
		session:  NewSession(sessionPath),
	}
}

func (c *Client) Session() *Session { return c.session }
func (c *Client) Cache() *PageCache { return c.cache }
func (c *Client) PageSize() int     { return c.pageSize }

// SetPageSize switches the page window. Any actual change purges the whole
// cache, since every cached page index now means something else.
func (c *Client) SetPageSize(n int) {
	if n <= 0 || n == c.pageSize {
		return
	}
	c.pageSize = n
	c.cache.Clear()
}

// FetchPage returns one page of the filtered roll, from cache when the key
// has been fetched before in this session. A failed fetch stores nothing, so
// the next call for the same key retries the network.
func (c *Client) FetchPage(ctx context.Context, page int, f Filters) (PageResult, error) {
	key := CacheKey(page, c.pageSize, f)
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}

	res, err := c.fetchRemote(ctx, page, c.pageSize, f)
	if err != nil {
		return PageResult{}, err
	}
	c.cache.Put(key, res)
	return res, nil
}

func (c *Client) fetchRemote(ctx context.Context, page, size int, f Filters) (PageResult, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	n := f.normalized()
	if n.Search != "" {
		params.Set("search", n.Search)
	}
	if n.Booth != "" {
		params.Set("booth", n.Booth)
	}
	if n.Gender != "" {
		params.Set("gender", n.Gender)
	}
	if minAge, maxAge := f.AgeBounds(); minAge != nil {
		params.Set("minAge", strconv.Itoa(*minAge))
		if maxAge != nil {
			params.Set("maxAge", strconv.Itoa(*maxAge))
		}
	}

	var res PageResult
	if err := c.getJSON(ctx, "/api/voters?"+params.Encode(), &res); err != nil {
		return PageResult{}, err
	}
	return res, nil
}

// Booths fetches the full booth directory. Expensive server-side; call once
// per session, not per filter change.
func (c *Client) Booths(ctx context.Context) ([]string, error) {
	var booths []string
	if err := c.getJSON(ctx, "/api/voters/booths", &booths); err != nil {
		return nil, err
	}
	return booths, nil
}

func (c *Client) Stats(ctx context.Context) (voters.StatsResponse, error) {
	var stats voters.StatsResponse
	err := c.getJSON(ctx, "/api/voters/stats", &stats)
	return stats, err
}

// SaveVoters submits a batch of drafts; records carrying an id are updated,
// the rest created. Mutations bypass the page cache — callers patch their
// in-memory list with the returned records.
func (c *Client) SaveVoters(ctx context.Context, drafts []voters.Voter) ([]voters.Voter, error) {
	var saved []voters.Voter
	if err := c.doJSON(ctx, http.MethodPost, "/api/voters", drafts, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (c *Client) UpdateVoter(ctx context.Context, id uint, v voters.Voter) (voters.Voter, error) {
	var updated voters.Voter
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/voters/%d", id), v, &updated)
	return updated, err
}

func (c *Client) DeleteVoter(ctx context.Context, id uint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+fmt.Sprintf("/api/voters/%d", id), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete voter: %s", resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
