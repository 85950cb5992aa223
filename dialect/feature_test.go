package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeaturesFor(t *testing.T) {
	tests := []struct {
		name           string
		dialect        string
		quote          rune
		placeholder    PlaceholderStyle
		returning      bool
		locking        bool
		conflictClause bool
		modifier       string
	}{
		{"Postgres", Postgres, '"', PlaceholderDollar, true, true, true, ""},
		{"MySQL", MySQL, '`', PlaceholderQuestion, false, true, false, "IGNORE"},
		{"SQLite", SQLite, '"', PlaceholderQuestion, true, false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FeaturesFor(tt.dialect)
			assert.Equal(t, tt.dialect, f.Name)
			assert.Equal(t, tt.quote, f.IdentQuote)
			assert.Equal(t, tt.placeholder, f.Placeholder)
			assert.Equal(t, tt.returning, f.Returning)
			assert.Equal(t, tt.locking, f.RowLocking)
			assert.Equal(t, tt.conflictClause, f.ConflictClause)
			assert.Equal(t, tt.modifier, f.InsertModifier)
		})
	}
}

func TestFeaturesForUnknown(t *testing.T) {
	f := FeaturesFor("cockroach")
	assert.Equal(t, "cockroach", f.Name)
	assert.Equal(t, '"', f.IdentQuote)
	assert.Equal(t, PlaceholderQuestion, f.Placeholder)
	assert.True(t, f.MultiRowInsert)
	assert.False(t, f.Returning)
	assert.False(t, f.RowLocking)
}

func TestPlaceholderFormat(t *testing.T) {
	assert.Equal(t, "?", PlaceholderQuestion.Format(1))
	assert.Equal(t, "?", PlaceholderQuestion.Format(7))
	assert.Equal(t, "$1", PlaceholderDollar.Format(1))
	assert.Equal(t, "$12", PlaceholderDollar.Format(12))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		features Features
		ident    string
		expected string
	}{
		{"postgres_simple", FeaturesFor(Postgres), "users", `"users"`},
		{"postgres_dotted", FeaturesFor(Postgres), "public.users", `"public"."users"`},
		{"postgres_embedded_quote", FeaturesFor(Postgres), `we"ird`, `"we""ird"`},
		{"mysql_simple", FeaturesFor(MySQL), "users", "`users`"},
		{"mysql_dotted", FeaturesFor(MySQL), "app.users", "`app`.`users`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.features.Quote(tt.ident))
		})
	}
}
