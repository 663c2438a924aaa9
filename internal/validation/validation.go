// Package validation holds the format checks for season fields: a four digit year,
// a rank within the league, and an ID of the form "<year>|<teamName>".
// The checks are pure predicates. Only the year check guards a request by default
// (the ?year= filter); the rest are applied to writes when strict mode is enabled.
package validation

import (
	"math"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/dmv-footballheadz/season-api/internal/models"
)

// IDSeparator splits a season ID into its year and team name.
const IDSeparator = "|"

const (
	yearRule = "required,len=4,digits"
	rankRule = "required,digits,leaguerank"
)

// Validator checks season fields against the league's rules.
type Validator struct {
	validate   *validator.Validate
	leagueSize int
}

// New returns a Validator accepting ranks from 1 to leagueSize.
func New(leagueSize int) *Validator {
	v := &Validator{
		validate:   validator.New(),
		leagueSize: leagueSize,
	}
	// Registration only fails for empty tags or nil funcs, neither of which can happen here.
	_ = v.validate.RegisterValidation("digits", isDigits)
	_ = v.validate.RegisterValidation("leaguerank", v.isLeagueRank)
	return v
}

// IsValidYear reports whether year is exactly four digits.
func (v *Validator) IsValidYear(year string) bool {
	return v.validate.Var(year, yearRule) == nil
}

// IsValidRank reports whether rank is a number between 1 and the league size.
func (v *Validator) IsValidRank(rank string) bool {
	return v.validate.Var(rank, rankRule) == nil
}

// IsValidID reports whether the season ID is "<year>|<teamName>" for the season's own
// year and team name.
func (v *Validator) IsValidID(season models.Season) bool {
	if !season.HasID() {
		return false
	}
	parts := splitID(season.ID)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	return parts[0] == season.Year && parts[1] == season.TeamName
}

// ValidateSeason checks the ID and, when present, the rank and playoff rank of season.
// It returns nil or an *Error naming every offending field.
func (v *Validator) ValidateSeason(season models.Season) error {
	var fields []string
	if !v.IsValidID(season) {
		fields = append(fields, "id")
	}
	if season.Rank != "" && !v.IsValidRank(season.Rank) {
		fields = append(fields, "rank")
	}
	if season.PlayoffRank != "" && !v.IsValidRank(season.PlayoffRank) {
		fields = append(fields, "playoffRank")
	}
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// Error lists the season fields that failed validation.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return "invalid season fields: " + strings.Join(e.Fields, ", ")
}

// splitID splits on the separator and drops trailing empty parts, so "2012|" is one part.
func splitID(id string) []string {
	parts := strings.Split(id, IDSeparator)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// isDigits accepts a non-empty string of Unicode decimal digits ("2012", "２０１２", "٢٠١٢").
func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if _, ok := digitValue(r); !ok {
			return false
		}
	}
	return true
}

func (v *Validator) isLeagueRank(fl validator.FieldLevel) bool {
	n, ok := parseDigits(fl.Field().String())
	return ok && n >= 1 && n <= v.leagueSize
}

// parseDigits reads a decimal number written in any Unicode digit script.
// strconv.Atoi only understands ASCII, so the digits are converted one by one.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return 0, false
		}
		// Anything this long is far outside any league; stop before n overflows.
		if n > math.MaxInt32 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue returns the numeric value of a decimal digit rune.
// Unicode lays out every decimal digit set (category Nd) as ten contiguous code points
// from zero to nine, so the value is the rune's distance from the start of its run, mod 10.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	offset := 0
	for unicode.IsDigit(r - rune(offset) - 1) {
		offset++
	}
	return offset % 10, true
}
