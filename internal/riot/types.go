package riot

import (
	"encoding/json"
	"fmt"
)

// LeagueList is the response of the apex league endpoints.
type LeagueList struct {
	Tier    string        `json:"tier"`
	Queue   string        `json:"queue"`
	Entries []LeagueEntry `json:"entries"`
}

// LeagueEntry is one ranked player. Newer responses carry PUUID directly;
// older ones only the encrypted summoner id.
type LeagueEntry struct {
	SummonerID   string `json:"summonerId"`
	PUUID        string `json:"puuid"`
	LeaguePoints int    `json:"leaguePoints"`
	Rank         string `json:"rank"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// Summoner is the summoner-v4 payload.
type Summoner struct {
	ID            string `json:"id"`
	PUUID         string `json:"puuid"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Account is the account-v1 payload.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// ChampionMastery is the champion-mastery-v4 payload for one champion.
type ChampionMastery struct {
	ChampionID     int `json:"championId"`
	ChampionLevel  int `json:"championLevel"`
	ChampionPoints int `json:"championPoints"`
}

// ---- match-v5 ----

// Match is the match-v5 result payload.
type Match struct {
	Metadata struct {
		MatchID      string   `json:"matchId"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`

	raw []byte
}

func (m *Match) keepRaw(b []byte) { m.raw = b }

// Raw returns the body the match was decoded from, if any.
func (m *Match) Raw() []byte { return m.raw }

// MatchInfo holds the match-level facts.
type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"`
	GameDuration int           `json:"gameDuration"` // seconds
	GameVersion  string        `json:"gameVersion"`
	QueueID      int           `json:"queueId"`
	PlatformID   string        `json:"platformId"`
	Participants []Participant `json:"participants"`
	Teams        []Team        `json:"teams"`
}

// Participant is one player's end-of-game summary.
type Participant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	SummonerName   string `json:"summonerName"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	TeamID         int    `json:"teamId"`
	TeamPosition   string `json:"teamPosition"`
	Win            bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	GoldEarned           int `json:"goldEarned"`
	GoldSpent            int `json:"goldSpent"`
	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`

	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	PhysicalDamageDealtToChampions int `json:"physicalDamageDealtToChampions"`
	MagicDamageDealtToChampions    int `json:"magicDamageDealtToChampions"`
	TrueDamageDealtToChampions     int `json:"trueDamageDealtToChampions"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	DamageSelfMitigated            int `json:"damageSelfMitigated"`
	DamageDealtToObjectives        int `json:"damageDealtToObjectives"`

	VisionScore                    int `json:"visionScore"`
	VisionWardsBoughtInGame        int `json:"visionWardsBoughtInGame"`
	TimeCCingOthers                int `json:"timeCCingOthers"`
	TotalHealsOnTeammates          int `json:"totalHealsOnTeammates"`
	TotalDamageShieldedOnTeammates int `json:"totalDamageShieldedOnTeammates"`
	TotalTimeSpentDead             int `json:"totalTimeSpentDead"`

	PentaKills     int  `json:"pentaKills"`
	FirstBloodKill bool `json:"firstBloodKill"`
	SpellVamp      int  `json:"spellVamp"`
	PhysicalVamp   int  `json:"physicalVamp"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"`

	Summoner1ID int `json:"summoner1Id"`
	Summoner2ID int `json:"summoner2Id"`

	Perks      Perks      `json:"perks"`
	Challenges Challenges `json:"challenges"`
}

// DisplayName prefers the Riot ID game name over the legacy summoner name.
func (p *Participant) DisplayName() string {
	if p.RiotIDGameName != "" {
		return p.RiotIDGameName
	}
	return p.SummonerName
}

// Items returns item slots 0..6.
func (p *Participant) Items() [7]int {
	return [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// Perks holds the rune page.
type Perks struct {
	Styles []PerkStyle `json:"styles"`
}

// PerkStyle is a primary or secondary rune tree.
type PerkStyle struct {
	Description string `json:"description"`
	Style       int    `json:"style"`
	Selections  []struct {
		Perk int `json:"perk"`
	} `json:"selections"`
}

// Keystone returns the first rune of the primary tree, or 0.
func (p Perks) Keystone() int {
	if len(p.Styles) == 0 || len(p.Styles[0].Selections) == 0 {
		return 0
	}
	return p.Styles[0].Selections[0].Perk
}

// SecondaryStyle returns the secondary tree id, or 0.
func (p Perks) SecondaryStyle() int {
	if len(p.Styles) < 2 {
		return 0
	}
	return p.Styles[1].Style
}

// Challenges is the subset of the challenges block that is stored. The API
// sends some counters as floats, so everything is decoded as float64.
type Challenges struct {
	SoloKills         float64 `json:"soloKills"`
	Multikills        float64 `json:"multikills"`
	ObjectivesStolen  float64 `json:"objectivesStolen"`
	SkillshotsDodged  float64 `json:"skillshotsDodged"`
	KDA               float64 `json:"kda"`
	KillParticipation float64 `json:"killParticipation"`
}

// Team is a team's end-of-game summary.
type Team struct {
	TeamID     int                  `json:"teamId"`
	Win        bool                 `json:"win"`
	Objectives map[string]Objective `json:"objectives"`
}

// Objective is one objective counter (baron, dragon, tower...).
type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

// ---- timeline ----

// Timeline is the match-v5 timeline payload.
type Timeline struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info TimelineInfo `json:"info"`

	raw []byte
}

func (t *Timeline) keepRaw(b []byte) { t.raw = b }

// Raw returns the body the timeline was decoded from, if any.
func (t *Timeline) Raw() []byte { return t.raw }

// TimelineInfo holds the frames.
type TimelineInfo struct {
	FrameInterval int64   `json:"frameInterval"` // ms
	Frames        []Frame `json:"frames"`
}

// Frame is one periodic snapshot. ParticipantFrames is keyed by slot "1".."10".
type Frame struct {
	Timestamp         int64                       `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
	Events            []Event                     `json:"events"`
}

// ParticipantFrame is a player's running totals at a frame.
type ParticipantFrame struct {
	ParticipantID       int `json:"participantId"`
	CurrentGold         int `json:"currentGold"`
	TotalGold           int `json:"totalGold"`
	XP                  int `json:"xp"`
	Level               int `json:"level"`
	MinionsKilled       int `json:"minionsKilled"`
	JungleMinionsKilled int `json:"jungleMinionsKilled"`
}

// Event is a discrete timeline event. Only the fields used by the extractor
// are decoded.
type Event struct {
	Type                    string    `json:"type"`
	Timestamp               int64     `json:"timestamp"` // ms since match start
	KillerID                int       `json:"killerId"`
	VictimID                int       `json:"victimId"`
	AssistingParticipantIDs []int     `json:"assistingParticipantIds"`
	CreatorID               int       `json:"creatorId"`
	WardType                string    `json:"wardType"`
	MonsterType             string    `json:"monsterType"`
	MonsterSubType          string    `json:"monsterSubType"`
	KillerTeamID            int       `json:"killerTeamId"`
	Position                *Position `json:"position"`
}

// Position is a map coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Event types.
const (
	EventChampionKill   = "CHAMPION_KILL"
	EventPlateDestroyed = "TURRET_PLATE_DESTROYED"
	EventWardPlaced     = "WARD_PLACED"
	EventWardKill       = "WARD_KILL"
	EventEliteMonster   = "ELITE_MONSTER_KILL"

	WardControl   = "CONTROL_WARD"
	MonsterDragon = "DRAGON"
	MonsterBaron  = "BARON_NASHOR"
)

// DecodeMatch decodes a match payload, keeping the raw body.
func DecodeMatch(raw []byte) (*Match, error) {
	var m Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	m.keepRaw(raw)
	return &m, nil
}

// DecodeTimeline decodes a timeline payload, keeping the raw body.
func DecodeTimeline(raw []byte) (*Timeline, error) {
	var t Timeline
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	t.keepRaw(raw)
	return &t, nil
}
