// Package models defines the Season record, the single entity managed by the Season API.
// The struct field tags describe every representation of a season at once:
//   - `json` is the wire format of the REST API
//   - `dynamodbav` is the attribute layout of the DynamoDB "Season" table
//   - `gorm` is the column layout of the Postgres "seasons" table
//
// A season is one team's standing in one league year. By convention its ID is
// "<year>|<teamName>", but nothing in this package enforces that; see package validation.
package models

import "strings"

// Season is one team's record for one fantasy-football season.
// Every field except ID is optional. An absent string is the empty string and an absent
// number is a nil pointer, so "not provided" and "zero points" stay distinguishable.
type Season struct {
	ID            string   `json:"id" dynamodbav:"Id" gorm:"column:id;primaryKey"`
	Year          string   `json:"year,omitempty" dynamodbav:"Year,omitempty" gorm:"column:year;index"`
	Rank          string   `json:"rank,omitempty" dynamodbav:"Rank,omitempty" gorm:"column:rank"`
	PlayoffRank   string   `json:"playoffRank,omitempty" dynamodbav:"PlayoffRank,omitempty" gorm:"column:playoff_rank"`
	TeamName      string   `json:"teamName,omitempty" dynamodbav:"TeamName,omitempty" gorm:"column:team_name"`
	Record        string   `json:"record,omitempty" dynamodbav:"Record,omitempty" gorm:"column:record"`
	Pct           *float64 `json:"pct,omitempty" dynamodbav:"Pct,omitempty" gorm:"column:pct"`
	Streak        string   `json:"streak,omitempty" dynamodbav:"Streak,omitempty" gorm:"column:streak"`
	PointsFor     *float64 `json:"pointsFor,omitempty" dynamodbav:"PointsFor,omitempty" gorm:"column:points_for"`
	PointsAgainst *float64 `json:"pointsAgainst,omitempty" dynamodbav:"PointsAgainst,omitempty" gorm:"column:points_against"`
}

// TableName tells GORM which Postgres table holds seasons.
func (Season) TableName() string {
	return "seasons"
}

// HasID reports whether the season carries a usable identifier.
func (s Season) HasID() bool {
	return strings.TrimSpace(s.ID) != ""
}

// Equal reports whether every field of s equals the same field of other.
// Numeric fields are compared by value, never by pointer identity.
func (s Season) Equal(other Season) bool {
	return s.ID == other.ID &&
		s.Year == other.Year &&
		s.Rank == other.Rank &&
		s.PlayoffRank == other.PlayoffRank &&
		s.TeamName == other.TeamName &&
		s.Record == other.Record &&
		equalFloat(s.Pct, other.Pct) &&
		s.Streak == other.Streak &&
		equalFloat(s.PointsFor, other.PointsFor) &&
		equalFloat(s.PointsAgainst, other.PointsAgainst)
}

// Clone returns a deep copy, so callers can't mutate a stored season through shared pointers.
func (s Season) Clone() Season {
	s.Pct = cloneFloat(s.Pct)
	s.PointsFor = cloneFloat(s.PointsFor)
	s.PointsAgainst = cloneFloat(s.PointsAgainst)
	return s
}

// Replace returns the stored season with every field except ID taken from newData.
// Fields absent from newData overwrite present ones (a full replacement, PUT semantics).
func (s Season) Replace(newData Season) Season {
	replaced := newData.Clone()
	replaced.ID = s.ID
	return replaced
}

// Merge returns the stored season with each field overwritten only where patch provides a value:
// a non-empty string or a non-nil number. Absent fields keep the stored value (PATCH semantics),
// so a patch can never clear a field.
func (s Season) Merge(patch Season) Season {
	merged := s.Clone()
	mergeString(&merged.Year, patch.Year)
	mergeString(&merged.Rank, patch.Rank)
	mergeString(&merged.PlayoffRank, patch.PlayoffRank)
	mergeString(&merged.TeamName, patch.TeamName)
	mergeString(&merged.Record, patch.Record)
	mergeFloat(&merged.Pct, patch.Pct)
	mergeString(&merged.Streak, patch.Streak)
	mergeFloat(&merged.PointsFor, patch.PointsFor)
	mergeFloat(&merged.PointsAgainst, patch.PointsAgainst)
	return merged
}

// Float returns a pointer to v; handy for building seasons in code and tests.
func Float(v float64) *float64 {
	return &v
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = cloneFloat(src)
	}
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
