package domain

import (
	"strconv"
	"time"
)

const (
	VerdictOK                = "OK"
	VerdictWrongAnswer       = "WRONG_ANSWER"
	VerdictTimeLimit         = "TIME_LIMIT_EXCEEDED"
	VerdictCompilationError  = "COMPILATION_ERROR"
	VerdictRuntimeError      = "RUNTIME_ERROR"
	VerdictMemoryLimit       = "MEMORY_LIMIT_EXCEEDED"
	VerdictTesting           = "TESTING"
	VerdictChallenged        = "CHALLENGED"
	VerdictSkipped           = "SKIPPED"
	VerdictPartial           = "PARTIAL"
	VerdictIdlenessLimit     = "IDLENESS_LIMIT_EXCEEDED"
	VerdictPresentationError = "PRESENTATION_ERROR"
)

type User struct {
	Handle        string
	FirstName     string
	LastName      string
	Country       string
	City          string
	Organization  string
	Rank          string
	MaxRank       string
	Rating        int
	MaxRating     int
	Contribution  int
	FriendOfCount int
	Avatar        string
	TitlePhoto    string
	LastOnlineAt  time.Time
	RegisteredAt  time.Time
}

type Problem struct {
	ContestID      int // 0 when absent
	ProblemsetName string
	Index          string
	Name           string
	Rating         int // 0 when unrated
	Tags           []string
	SolvedCount    int // catalog only
}

type Submission struct {
	ID        int64
	ContestID int
	Problem   Problem
	Language  string
	Verdict   string
	CreatedAt time.Time
}

func (s Submission) Accepted() bool {
	return s.Verdict == VerdictOK
}

type RatingChange struct {
	ContestID   int
	ContestName string
	Rank        int
	OldRating   int
	NewRating   int
	UpdatedAt   time.Time
}

func (r RatingChange) Delta() int {
	return r.NewRating - r.OldRating
}

type GoalType string

const (
	GoalRating   GoalType = "rating"
	GoalProblems GoalType = "problems"
	GoalContests GoalType = "contests"
	GoalStreak   GoalType = "streak"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalRating, GoalProblems, GoalContests, GoalStreak:
		return true
	}
	return false
}

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalOverdue   GoalStatus = "overdue"
)

type Goal struct {
	ID          string // nanoid
	Title       string
	Type        GoalType
	Target      int
	Current     int
	Deadline    time.Time
	Description string
	Status      GoalStatus
	Progress    []ProgressEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProgressEntry struct {
	Date  time.Time `json:"date"`
	Value int       `json:"value"`
}

type Theme struct {
	ID          string // nanoid for custom themes, slug for presets
	Name        string
	Description string
	Colors      map[string]string
	BuiltIn     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key identifies a problem across submissions as "{contestId}-{index}".
// Problems outside contests fall back to their problemset name. An empty
// result means the problem cannot be identified.
func (p Problem) Key() string {
	if p.Index == "" {
		return ""
	}
	if p.ContestID != 0 {
		return strconv.Itoa(p.ContestID) + "-" + p.Index
	}
	if p.ProblemsetName != "" {
		return p.ProblemsetName + "-" + p.Index
	}
	return ""
}
