package server

// Wire messages for the tracker service. Times are RFC 3339 strings, days are
// YYYY-MM-DD in UTC.

type User struct {
	Handle        string `json:"handle"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Country       string `json:"country,omitempty"`
	City          string `json:"city,omitempty"`
	Organization  string `json:"organization,omitempty"`
	Rank          string `json:"rank,omitempty"`
	MaxRank       string `json:"maxRank,omitempty"`
	Rating        int    `json:"rating"`
	MaxRating     int    `json:"maxRating"`
	Contribution  int    `json:"contribution"`
	FriendOfCount int    `json:"friendOfCount"`
	Avatar        string `json:"avatar,omitempty"`
	TitlePhoto    string `json:"titlePhoto,omitempty"`
	LastOnlineAt  string `json:"lastOnlineAt,omitempty"`
	RegisteredAt  string `json:"registeredAt,omitempty"`
}

type RatingChange struct {
	ContestID   int    `json:"contestId"`
	ContestName string `json:"contestName"`
	Rank        int    `json:"rank"`
	OldRating   int    `json:"oldRating"`
	NewRating   int    `json:"newRating"`
	Delta       int    `json:"delta"`
	UpdatedAt   string `json:"updatedAt"`
}

type RatingHistory struct {
	Changes   []RatingChange `json:"changes"`
	MaxRating int            `json:"maxRating"`
	MinRating int            `json:"minRating"`
	BestRank  int            `json:"bestRank"`
	Contests  int            `json:"contests"`
}

type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

type Stats struct {
	Solved              int            `json:"solved"`
	Attempted           int            `json:"attempted"`
	Unsolved            int            `json:"unsolved"`
	TotalSubmissions    int            `json:"totalSubmissions"`
	AcceptedSubmissions int            `json:"acceptedSubmissions"`
	AcceptanceRate      float64        `json:"acceptanceRate"`
	AverageSolvedRating float64        `json:"averageSolvedRating"`
	SolvedLastYear      int            `json:"solvedLastYear"`
	SolvedLastMonth     int            `json:"solvedLastMonth"`
	DifficultyBuckets   []BucketCount  `json:"difficultyBuckets"`
	Languages           map[string]int `json:"languages"`
	Tags                map[string]int `json:"tags"`
}

type Problem struct {
	Key         string   `json:"key"`
	ContestID   int      `json:"contestId,omitempty"`
	Index       string   `json:"index"`
	Name        string   `json:"name"`
	Rating      int      `json:"rating,omitempty"`
	Tags        []string `json:"tags"`
	SolvedCount int      `json:"solvedCount,omitempty"`
	URL         string   `json:"url,omitempty"`
}

type SolvedProblem struct {
	Problem  Problem `json:"problem"`
	SolvedAt string  `json:"solvedAt"`
}

type Submission struct {
	ID         int64  `json:"id"`
	ProblemKey string `json:"problemKey"`
	Name       string `json:"name"`
	Verdict    string `json:"verdict"`
	Language   string `json:"language"`
	CreatedAt  string `json:"createdAt"`
}

type HeatmapCell struct {
	Date        string       `json:"date,omitempty"`
	Count       int          `json:"count"`
	Level       int          `json:"level"`
	Padding     bool         `json:"padding,omitempty"`
	Future      bool         `json:"future,omitempty"`
	Today       bool         `json:"today,omitempty"`
	Submissions []Submission `json:"submissions,omitempty"`
}

type Streaks struct {
	ActiveDays        int `json:"activeDays"`
	MaxStreak         int `json:"maxStreak"`
	CurrentStreak     int `json:"currentStreak"`
	LastYearMaxStreak int `json:"lastYearMaxStreak"`
	LastMonthStreak   int `json:"lastMonthStreak"`
}

type Share struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

type ProfileRequest struct {
	Handle string `json:"handle"`
}

type ProfileResponse struct {
	User          User            `json:"user"`
	RatingHistory RatingHistory   `json:"ratingHistory"`
	Stats         Stats           `json:"stats"`
	Heatmap       []HeatmapCell   `json:"heatmap"`
	Streaks       Streaks         `json:"streaks"`
	RecentSolved  []SolvedProblem `json:"recentSolved"`
	Share         Share           `json:"share"`
	FetchedAt     string          `json:"fetchedAt"`
}

type HeatmapRequest struct {
	Handle     string `json:"handle"`
	WindowDays int    `json:"windowDays,omitempty"`
}

type HeatmapResponse struct {
	Handle  string          `json:"handle"`
	Cells   []HeatmapCell   `json:"cells"`
	Weeks   [][]HeatmapCell `json:"weeks"`
	Streaks Streaks         `json:"streaks"`
}

type RecommendationsRequest struct {
	Handle     string   `json:"handle"`
	Status     string   `json:"status,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	MinRating  int      `json:"minRating,omitempty"`
	MaxRating  int      `json:"maxRating,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type RecommendedProblem struct {
	Problem   Problem  `json:"problem"`
	Score     float64  `json:"score"`
	Reason    string   `json:"reason"`
	WeakTags  []string `json:"weakTags,omitempty"`
	Attempted bool     `json:"attempted"`
}

type RecommendationsResponse struct {
	Handle        string               `json:"handle"`
	AverageRating float64              `json:"averageRating"`
	WeakTags      []string             `json:"weakTags"`
	Problems      []RecommendedProblem `json:"problems"`
}

type CompareRequest struct {
	HandleA string `json:"handleA"`
	HandleB string `json:"handleB"`
}

type UserStats struct {
	Handle            string         `json:"handle"`
	Rank              string         `json:"rank,omitempty"`
	Rating            int            `json:"rating"`
	MaxRating         int            `json:"maxRating"`
	Solved            int            `json:"solved"`
	TotalSubmissions  int            `json:"totalSubmissions"`
	AcceptanceRate    float64        `json:"acceptanceRate"`
	DifficultyBuckets []BucketCount  `json:"difficultyBuckets"`
	Languages         map[string]int `json:"languages"`
}

type BucketDelta struct {
	Bucket string `json:"bucket"`
	A      int    `json:"a"`
	B      int    `json:"b"`
	Delta  int    `json:"delta"`
}

type RadarMetric struct {
	Metric string  `json:"metric"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
}

type CompareResponse struct {
	A            UserStats     `json:"a"`
	B            UserStats     `json:"b"`
	CommonSolved int           `json:"commonSolved"`
	OnlyA        int           `json:"onlyA"`
	OnlyB        int           `json:"onlyB"`
	Buckets      []BucketDelta `json:"buckets"`
	Radar        []RadarMetric `json:"radar"`
}

type ProgressEntry struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

type Goal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Type          string          `json:"type"`
	Target        int             `json:"target"`
	Current       int             `json:"current"`
	Deadline      string          `json:"deadline"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	Progress      []ProgressEntry `json:"progress"`
	Percent       float64         `json:"percent"`
	DaysRemaining int             `json:"daysRemaining"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type GoalSummary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

type ListGoalsRequest struct {
	Status string `json:"status,omitempty"`
}

type ListGoalsResponse struct {
	Goals   []Goal      `json:"goals"`
	Summary GoalSummary `json:"summary"`
}

type GoalFields struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Target      int    `json:"target"`
	Current     int    `json:"current,omitempty"`
	Deadline    string `json:"deadline"`
	Description string `json:"description,omitempty"`
}

type CreateGoalRequest struct {
	GoalFields
}

type UpdateGoalRequest struct {
	ID string `json:"id"`
	GoalFields
}

type GoalResponse struct {
	Goal Goal `json:"goal"`
}

type DeleteGoalRequest struct {
	ID string `json:"id"`
}

type DeleteGoalResponse struct{}

type RecordGoalProgressRequest struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

type SyncGoalRequest struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type Theme struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Colors      map[string]string `json:"colors"`
	BuiltIn     bool              `json:"builtIn"`
}

type ListThemesRequest struct{}

type ListThemesResponse struct {
	Themes   []Theme `json:"themes"`
	Selected string  `json:"selected"`
}

type SaveThemeRequest struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Colors      map[string]string `json:"colors"`
}

type ThemeResponse struct {
	Theme Theme `json:"theme"`
}

type DeleteThemeRequest struct {
	ID string `json:"id"`
}

type DeleteThemeResponse struct{}

type SelectThemeRequest struct {
	ID string `json:"id"`
}
