package mal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// User is the authenticated MAL account profile.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
	Location string `json:"location,omitempty"`
	JoinedAt string `json:"joined_at,omitempty"`
}

// ListStatus is an entry's per-user state on a MAL anime list.
type ListStatus struct {
	Status             string `json:"status"` // watching, completed, on_hold, dropped, plan_to_watch
	Score              int    `json:"score"`
	NumEpisodesWatched int    `json:"num_episodes_watched"`
	IsRewatching       bool   `json:"is_rewatching,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// ListEntry pairs an anime with the user's list state.
type ListEntry struct {
	Anime  Anime      `json:"anime"`
	Status ListStatus `json:"status"`
}

// ListUpdate describes changes for UpdateListStatus. Nil fields are left
// unchanged.
type ListUpdate struct {
	Status          string
	Score           *int
	WatchedEpisodes *int
}

// UserInfo returns the authenticated user's profile.
func (c *Client) UserInfo() (*User, error) {
	q := url.Values{}
	q.Set("fields", "id,name,picture,location,joined_at,anime_statistics")

	body, err := c.get(c.base+"/users/@me?"+q.Encode(), true)
	if err != nil {
		return nil, fmt.Errorf("fetching MAL profile: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &user, nil
}

// AnimeList returns the user's anime list, optionally filtered by status.
// sort: list_score, list_updated_at, anime_title, anime_start_date.
func (c *Client) AnimeList(status, sort string, limit, offset int) ([]ListEntry, error) {
	if sort == "" {
		sort = "list_updated_at"
	}

	q := url.Values{}
	q.Set("sort", sort)
	q.Set("limit", strconv.Itoa(clampLimit(limit, 1000)))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("fields", "list_status,num_episodes,synopsis,mean,rank,popularity,genres,media_type")
	if status != "" {
		q.Set("status", status)
	}

	body, err := c.get(c.base+"/users/@me/animelist?"+q.Encode(), true)
	if err != nil {
		return nil, fmt.Errorf("fetching MAL anime list: %w", err)
	}

	var env struct {
		Data []struct {
			Node       Anime      `json:"node"`
			ListStatus ListStatus `json:"list_status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing anime list: %w", err)
	}

	entries := make([]ListEntry, 0, len(env.Data))
	for _, item := range env.Data {
		entries = append(entries, ListEntry{Anime: item.Node, Status: item.ListStatus})
	}
	return entries, nil
}

// UpdateListStatus patches the user's list entry for an anime and returns
// the updated state.
func (c *Client) UpdateListStatus(animeID int, update ListUpdate) (*ListStatus, error) {
	if animeID <= 0 {
		return nil, fmt.Errorf("invalid anime ID %d", animeID)
	}
	if c.token == nil {
		return nil, fmt.Errorf("not authenticated")
	}

	form := url.Values{}
	if update.Status != "" {
		form.Set("status", update.Status)
	}
	if update.Score != nil {
		form.Set("score", strconv.Itoa(*update.Score))
	}
	if update.WatchedEpisodes != nil {
		form.Set("num_watched_episodes", strconv.Itoa(*update.WatchedEpisodes))
	}
	if len(form) == 0 {
		return nil, fmt.Errorf("nothing to update")
	}

	endpoint := fmt.Sprintf("%s/anime/%d/my_list_status", c.base, animeID)
	req, err := http.NewRequest(http.MethodPatch, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var status ListStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parsing list status: %w", err)
	}
	return &status, nil
}

// DeleteListEntry removes an anime from the user's list.
func (c *Client) DeleteListEntry(animeID int) error {
	if animeID <= 0 {
		return fmt.Errorf("invalid anime ID %d", animeID)
	}
	if c.token == nil {
		return fmt.Errorf("not authenticated")
	}

	endpoint := fmt.Sprintf("%s/anime/%d/my_list_status", c.base, animeID)
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("anime %d is not on the list", animeID)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Suggestions returns personalized anime suggestions for the user.
func (c *Client) Suggestions(limit int) ([]Anime, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit, 100)))
	q.Set("fields", "id,title,main_picture,mean,rank,num_episodes,status,genres,synopsis")

	body, err := c.get(c.base+"/anime/suggestions?"+q.Encode(), true)
	if err != nil {
		return nil, fmt.Errorf("fetching MAL suggestions: %w", err)
	}

	return decodeNodes(body)
}
