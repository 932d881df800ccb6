package riot

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"go.uber.org/zap"
)

// Tier is one apex ranked tier and the path segment of its league endpoint.
type Tier struct {
	Name string
	Path string
}

// ApexTiers is the discovery order, highest tier first.
var ApexTiers = []Tier{
	{Name: "CHALLENGER", Path: "challengerleagues"},
	{Name: "GRANDMASTER", Path: "grandmasterleagues"},
	{Name: "MASTER", Path: "masterleagues"},
}

// RankedSolo is the ranked solo/duo queue name used by league-v4.
const RankedSolo = "RANKED_SOLO_5x5"

// League fetches the full entry list of an apex tier on a platform.
func (c *Client) League(ctx context.Context, platform string, tier Tier, queue string) (*LeagueList, bool, error) {
	var out LeagueList
	u := fmt.Sprintf("%s/lol/league/v4/%s/by-queue/%s", c.hostURL(platform), tier.Path, queue)
	ok, err := c.get(ctx, u, &out)
	if !ok || err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// SummonerByID resolves an encrypted summoner id on a platform.
func (c *Client) SummonerByID(ctx context.Context, platform, summonerID string) (*Summoner, bool, error) {
	var out Summoner
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/%s", c.hostURL(platform), url.PathEscape(summonerID))
	ok, err := c.get(ctx, u, &out)
	if !ok || err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// DiscoverPlayers walks ApexTiers on a platform and collects up to target
// puuids, best league points first. A tier that cannot be fetched is skipped
// and entries whose puuid cannot be resolved are dropped; only fatal errors
// are returned, together with whatever was collected so far.
func (c *Client) DiscoverPlayers(ctx context.Context, platform string, target int) ([]string, error) {
	log := c.logger.With(zap.String("platform", platform))
	seen := make(map[string]struct{}, target)
	out := make([]string, 0, target)

	for _, tier := range ApexTiers {
		if len(out) >= target {
			break
		}
		list, ok, err := c.League(ctx, platform, tier, RankedSolo)
		if err != nil {
			return out, err
		}
		if !ok || len(list.Entries) == 0 {
			log.Warn("tier unavailable, skipping", zap.String("tier", tier.Name))
			continue
		}

		entries := make([]LeagueEntry, len(list.Entries))
		copy(entries, list.Entries)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LeaguePoints > entries[j].LeaguePoints
		})
		if need := target - len(out); need < len(entries) {
			entries = entries[:need]
		}
		log.Info("collecting tier",
			zap.String("tier", tier.Name), zap.Int("entries", len(entries)), zap.Int("have", len(out)))

		for _, e := range entries {
			puuid := e.PUUID
			if puuid == "" {
				s, ok, err := c.SummonerByID(ctx, platform, e.SummonerID)
				if err != nil {
					return out, err
				}
				if !ok || s.PUUID == "" {
					log.Debug("unresolved summoner", zap.String("summoner_id", e.SummonerID))
					continue
				}
				puuid = s.PUUID
			}
			if _, dup := seen[puuid]; dup {
				continue
			}
			seen[puuid] = struct{}{}
			out = append(out, puuid)
		}
	}
	return out, nil
}
