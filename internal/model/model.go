package model

// Team ids as used by the match and timeline payloads.
const (
	TeamBlue = 100
	TeamRed  = 200
)

// TeamName returns the side colour for a team id.
func TeamName(teamID int) string {
	switch teamID {
	case TeamBlue:
		return "BLUE"
	case TeamRed:
		return "RED"
	default:
		return "?"
	}
}

// ---- Rows produced by the assembler ----

// PerformanceRow is one participant of one match. Keyed by (MatchID, PUUID).
type PerformanceRow struct {
	MatchID            string
	MatchTeamKey       string // "{match}-{team}"
	PUUID              string
	SummonerName       string
	Platform           string
	QueueID            int
	GameVersion        string
	GameDurationSec    int
	GameStartTimestamp int64 // ms since epoch
	ChampionName       string
	ChampionID         int
	TeamID             int
	TeamPosition       string
	Win                bool

	TotalGoldEarned      int
	GoldSpent            int
	TotalCS              int
	NeutralMinionsKilled int

	PrimaryRuneID    int
	SecondaryStyleID int
	SummonerSpell1   int
	SummonerSpell2   int
	ChampionMastery  int

	Kills   int
	Deaths  int
	Assists int

	TotalDamageDealt    int
	PhysicalDamageDealt int
	MagicDamageDealt    int
	TrueDamageDealt     int
	TotalDamageTaken    int
	DamageSelfMitigated int
	DamageToObjectives  int

	VisionScore             int
	VisionWardsBought       int
	TimeCCOthers            int
	TotalHealsOnTeammates   int
	TotalShieldsOnTeammates int
	TotalTimeSpentDead      int

	SoloKills         int
	Multikills        int
	Pentakills        int
	ObjectivesStolen  int
	SkillshotsDodged  int
	FirstBloodKill    bool
	SpellVamp         int
	KDA               float64
	KillParticipation float64

	Items [7]int

	GoldPerMin float64
	CSPerMin   float64

	// Minute 10.
	CSAt10                 int
	JungleCSAt10           int
	LaneCSAt10             int
	GoldAt10               int
	XPAt10                 int
	LevelAt10              int
	KillsAt10              int
	DeathsAt10             int
	AssistsAt10            int
	SoloKillsAt10          int
	TurretPlatesTaken      int
	KPAt10                 float64
	GoldSpentAt10          int
	WardsPlacedAt10        int
	ControlWardsPlacedAt10 int
	WardsKilledAt10        int

	// Minute 15.
	CSAt15   int
	GoldAt15 int
	XPAt15   int

	// Minutes 10 to 20.
	GoldGain10To20 int
	XPGain10To20   int
	CSGain10To20   int
	Kills10To20    int
	Deaths10To20   int
	Assists10To20  int

	// Minute 20 onwards.
	Kills20Plus      int
	Deaths20Plus     int
	Assists20Plus    int
	BaronKills20Plus int

	// Self minus lane opponent; zero when there is no opponent.
	CSDiffAt10   int
	GoldDiffAt10 int
	XPDiffAt10   int
	CSDiffAt15   int
	GoldDiffAt15 int
	XPDiffAt15   int
}

// KillRow is one champion kill. DeathID is "{match}_{timestamp}_{victim}".
type KillRow struct {
	DeathID      string
	MatchID      string
	EventTimeMin float64
	VictimID     int
	VictimPUUID  string
	VictimName   string
	VictimTeamID int
	KillerID     int
	KillerPUUID  string
	KillerName   string
	PosX         int
	PosY         int
	IsInBase     bool
}

// TeamRow holds objective counts for one team of one match.
type TeamRow struct {
	MatchID        string
	MatchTeamKey   string
	TeamID         int
	Win            bool
	BaronKills     int
	DragonKills    int
	TowerKills     int
	InhibitorKills int
	HordeKills     int
	CloudKills     int
	InfernalKills  int
	MountainKills  int
	OceanKills     int
	HextechKills   int
	ChemtechKills  int
	ElderKills     int
}

// MatchRows is everything written for one match.
type MatchRows struct {
	MatchID     string
	Performance []PerformanceRow
	Kills       []KillRow
	Teams       []TeamRow
}

// SaveResult counts rows actually inserted per table. Rows skipped on
// conflict are not counted.
type SaveResult struct {
	Performance int
	Kills       int
	Teams       int
}

// Total returns the number of inserted rows across all tables.
func (r SaveResult) Total() int {
	return r.Performance + r.Kills + r.Teams
}

// ---- Read side ----

// MatchSummary is one stored match as shown by list/show.
type MatchSummary struct {
	MatchID            string
	Platform           string
	QueueID            int
	GameVersion        string
	GameDurationSec    int
	GameStartTimestamp int64
	BlueWin            bool
	BlueKills          int
	RedKills           int
}

// PlayerAggregate accumulates a player's performance rows across matches.
type PlayerAggregate struct {
	PUUID        string
	Name         string
	Matches      int
	Wins         int
	Kills        int
	Deaths       int
	Assists      int
	GoldPerMin   float64 // sum; divide by Matches
	CSPerMin     float64 // sum
	GoldDiffAt10 int
	CSDiffAt10   int
	XPDiffAt10   int
	SoloKills    int
	VisionScore  int
}

// KDA returns (kills+assists)/deaths, treating zero deaths as one.
func (a *PlayerAggregate) KDA() float64 {
	d := a.Deaths
	if d == 0 {
		d = 1
	}
	return float64(a.Kills+a.Assists) / float64(d)
}

// WinRate returns wins as a percentage of matches.
func (a *PlayerAggregate) WinRate() float64 {
	if a.Matches == 0 {
		return 0
	}
	return 100 * float64(a.Wins) / float64(a.Matches)
}

// AvgGPM returns mean gold per minute.
func (a *PlayerAggregate) AvgGPM() float64 {
	if a.Matches == 0 {
		return 0
	}
	return a.GoldPerMin / float64(a.Matches)
}

// AvgCSPM returns mean creep score per minute.
func (a *PlayerAggregate) AvgCSPM() float64 {
	if a.Matches == 0 {
		return 0
	}
	return a.CSPerMin / float64(a.Matches)
}

// AvgGoldDiffAt10 returns the mean lane gold difference at minute 10.
func (a *PlayerAggregate) AvgGoldDiffAt10() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.GoldDiffAt10) / float64(a.Matches)
}

// AvgCSDiffAt10 returns the mean lane cs difference at minute 10.
func (a *PlayerAggregate) AvgCSDiffAt10() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.CSDiffAt10) / float64(a.Matches)
}

// DBOverview holds high-level counts for the summary command.
type DBOverview struct {
	TotalMatches  int
	UniquePlayers int
	TotalKills    int
	EarliestMatch string
	LatestMatch   string
}

// PlatformCount is the number of distinct matches stored per platform.
type PlatformCount struct {
	Platform string
	Matches  int
}

// ChampionStat is a champion's pick count and win rate.
type ChampionStat struct {
	Champion string
	Picks    int
	Wins     int
}

// RoleStat summarises lane-phase results for one team position.
type RoleStat struct {
	Role               string
	Games              int
	Wins               int
	AvgGoldDiffAt10    float64
	MedianGoldDiffAt10 float64
	AvgCSDiffAt10      float64
	AvgXPDiffAt10      float64
	AvgKP              float64
}

// WinRate returns wins as a percentage of games.
func (r *RoleStat) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return 100 * float64(r.Wins) / float64(r.Games)
}
