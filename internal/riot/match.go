package riot

import (
	"context"
	"fmt"
	"net/url"
)

// MatchIDs lists recent match ids of a player, newest first. queue 0 means
// every queue.
func (c *Client) MatchIDs(ctx context.Context, puuid string, queue, start, count int) ([]string, error) {
	q := url.Values{}
	q.Set("start", fmt.Sprint(start))
	q.Set("count", fmt.Sprint(count))
	if queue > 0 {
		q.Set("queue", fmt.Sprint(queue))
	}
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?%s",
		c.hostURL(c.routing), url.PathEscape(puuid), q.Encode())

	var ids []string
	if _, err := c.get(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Match fetches a match result. It returns nil, nil when the match is not available.
func (c *Client) Match(ctx context.Context, matchID string) (*Match, error) {
	var m Match
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.hostURL(c.routing), url.PathEscape(matchID))
	ok, err := c.get(ctx, u, &m)
	if !ok || err != nil {
		return nil, err
	}
	return &m, nil
}

// Timeline fetches a match timeline. It returns nil, nil when not available.
func (c *Client) Timeline(ctx context.Context, matchID string) (*Timeline, error) {
	var t Timeline
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.hostURL(c.routing), url.PathEscape(matchID))
	ok, err := c.get(ctx, u, &t)
	if !ok || err != nil {
		return nil, err
	}
	return &t, nil
}

// AccountByRiotID resolves "name#tag" to an account. It returns nil, nil for
// an unknown Riot ID.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	var a Account
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.hostURL(c.routing), url.PathEscape(gameName), url.PathEscape(tagLine))
	ok, err := c.get(ctx, u, &a)
	if !ok || err != nil {
		return nil, err
	}
	return &a, nil
}

// MasteryPoints returns a player's mastery points on a champion, 0 when unknown.
func (c *Client) MasteryPoints(ctx context.Context, platform, puuid string, championID int) (int, error) {
	var m ChampionMastery
	u := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/by-champion/%d",
		c.hostURL(platform), url.PathEscape(puuid), championID)
	ok, err := c.get(ctx, u, &m)
	if !ok || err != nil {
		return 0, err
	}
	return m.ChampionPoints, nil
}
