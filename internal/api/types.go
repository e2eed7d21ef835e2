package api

import (
	"codeforces-tracker/internal/domain"
	"time"
)

type User struct {
	Handle                  string `json:"handle"`
	FirstName               string `json:"firstName"`
	LastName                string `json:"lastName"`
	Country                 string `json:"country"`
	City                    string `json:"city"`
	Organization            string `json:"organization"`
	Contribution            int    `json:"contribution"`
	Rank                    string `json:"rank"`
	Rating                  int    `json:"rating"`
	MaxRank                 string `json:"maxRank"`
	MaxRating               int    `json:"maxRating"`
	LastOnlineTimeSeconds   int64  `json:"lastOnlineTimeSeconds"`
	RegistrationTimeSeconds int64  `json:"registrationTimeSeconds"`
	FriendOfCount           int    `json:"friendOfCount"`
	Avatar                  string `json:"avatar"`
	TitlePhoto              string `json:"titlePhoto"`
}

type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type Problem struct {
	ContestID      int      `json:"contestId"`
	ProblemsetName string   `json:"problemsetName"`
	Index          string   `json:"index"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Points         float64  `json:"points"`
	Rating         int      `json:"rating"`
	Tags           []string `json:"tags"`
}

type ProblemStatistics struct {
	ContestID   int    `json:"contestId"`
	Index       string `json:"index"`
	SolvedCount int    `json:"solvedCount"`
}

type Problemset struct {
	Problems          []Problem           `json:"problems"`
	ProblemStatistics []ProblemStatistics `json:"problemStatistics"`
}

type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	RelativeTimeSeconds int64   `json:"relativeTimeSeconds"`
	Problem             Problem `json:"problem"`
	ProgrammingLanguage string  `json:"programmingLanguage"`
	Verdict             string  `json:"verdict"`
	Testset             string  `json:"testset"`
	PassedTestCount     int     `json:"passedTestCount"`
	TimeConsumedMillis  int     `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64   `json:"memoryConsumedBytes"`
}

func (u User) ToDomain() domain.User {
	return domain.User{
		Handle:        u.Handle,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Country:       u.Country,
		City:          u.City,
		Organization:  u.Organization,
		Rank:          u.Rank,
		MaxRank:       u.MaxRank,
		Rating:        u.Rating,
		MaxRating:     u.MaxRating,
		Contribution:  u.Contribution,
		FriendOfCount: u.FriendOfCount,
		Avatar:        u.Avatar,
		TitlePhoto:    u.TitlePhoto,
		LastOnlineAt:  unix(u.LastOnlineTimeSeconds),
		RegisteredAt:  unix(u.RegistrationTimeSeconds),
	}
}

func (r RatingChange) ToDomain() domain.RatingChange {
	return domain.RatingChange{
		ContestID:   r.ContestID,
		ContestName: r.ContestName,
		Rank:        r.Rank,
		OldRating:   r.OldRating,
		NewRating:   r.NewRating,
		UpdatedAt:   unix(r.RatingUpdateTimeSeconds),
	}
}

func (p Problem) ToDomain() domain.Problem {
	return domain.Problem{
		ContestID:      p.ContestID,
		ProblemsetName: p.ProblemsetName,
		Index:          p.Index,
		Name:           p.Name,
		Rating:         p.Rating,
		Tags:           p.Tags,
	}
}

func (s Submission) ToDomain() domain.Submission {
	contestID := s.ContestID
	if contestID == 0 {
		contestID = s.Problem.ContestID
	}
	return domain.Submission{
		ID:        s.ID,
		ContestID: contestID,
		Problem:   s.Problem.ToDomain(),
		Language:  s.ProgrammingLanguage,
		Verdict:   s.Verdict,
		CreatedAt: unix(s.CreationTimeSeconds),
	}
}

func SubmissionsToDomain(subs []Submission) []domain.Submission {
	out := make([]domain.Submission, len(subs))
	for i, s := range subs {
		out[i] = s.ToDomain()
	}
	return out
}

func RatingChangesToDomain(changes []RatingChange) []domain.RatingChange {
	out := make([]domain.RatingChange, len(changes))
	for i, c := range changes {
		out[i] = c.ToDomain()
	}
	return out
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
