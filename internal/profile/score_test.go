package profile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo-privacy/theo/internal/pii"
)

func TestScoreEmptyProfile(t *testing.T) {
	assert.Equal(t, 0, New().Score())
}

func TestScoreSingleValue(t *testing.T) {
	// One value contributes a third of the category weight.
	cases := []struct {
		entityType string
		want       int
	}{
		{"PERSON", 8},     // round(25/3)
		{"US_SSN", 10},    // round(30/3)
		{"LOCATION", 5},   // 15/3
		{"DATE_TIME", 1},  // round(2/3)
		{"WHO_KNOWS", 0},  // round(1/3)
	}
	for _, tc := range cases {
		t.Run(tc.entityType, func(t *testing.T) {
			p := New()
			p.Absorb(entity("value", tc.entityType))
			assert.Equal(t, tc.want, p.Score())
		})
	}
}

func TestScoreDiminishingReturns(t *testing.T) {
	three := New()
	for i := 0; i < 3; i++ {
		three.Absorb(entity(fmt.Sprintf("city-%d", i), "LOCATION"))
	}
	four := New()
	for i := 0; i < 4; i++ {
		four.Absorb(entity(fmt.Sprintf("city-%d", i), "LOCATION"))
	}

	require.Equal(t, 15, three.Score())
	assert.Equal(t, three.Score(), four.Score(), "a fourth distinct value must not raise a saturated category")
}

func TestScoreMonotonic(t *testing.T) {
	additions := []pii.Entity{
		entity("John", "PERSON"),
		entity("Albany", "LOCATION"),
		entity("jane@example.com", "EMAIL_ADDRESS"),
		entity("Albany", "LOCATION"), // duplicate
		entity("college student", "EDUCATION_LEVEL"),
		entity("078-05-1120", "US_SSN"),
		entity("engineer", "OCCUPATION"),
	}

	p := New()
	prev := p.Score()
	for _, e := range additions {
		p.Absorb(e)
		got := p.Score()
		assert.GreaterOrEqual(t, got, prev, "score dropped after absorbing %+v", e)
		prev = got
	}
}

func TestScoreComboBonuses(t *testing.T) {
	t.Run("location plus education", func(t *testing.T) {
		p := New()
		p.Absorb(entity("college student", "EDUCATION_LEVEL"))
		require.Equal(t, 3, p.Score()) // round(10/3)

		p.Absorb(entity("Schenectady, New York", "LOCATION"))
		// 10/3 + 15/3 + 10 bonus = 18.33
		assert.Equal(t, 18, p.Score())
	})

	t.Run("identity plus location", func(t *testing.T) {
		p := New()
		p.Absorb(entity("Albany", "LOCATION"))
		p.Absorb(entity("John", "PERSON"))
		// 15/3 + 25/3 + 15 bonus = 28.33
		assert.Equal(t, 28, p.Score())
	})

	t.Run("bonus fires once regardless of volume", func(t *testing.T) {
		p := New()
		for i := 0; i < 5; i++ {
			p.Absorb(entity(fmt.Sprintf("city-%d", i), "LOCATION"))
			p.Absorb(entity(fmt.Sprintf("degree-%d", i), "EDUCATION_LEVEL"))
		}
		// Saturated: 15 + 10 + 10 bonus.
		assert.Equal(t, 35, p.Score())
	})
}

func TestScoreClampedAt100(t *testing.T) {
	p := New()
	saturate := func(entityType string) {
		for i := 0; i < 3; i++ {
			p.Absorb(entity(fmt.Sprintf("%s-%d", entityType, i), entityType))
		}
	}
	saturate("PERSON")
	saturate("US_SSN")
	saturate("EMAIL_ADDRESS")
	saturate("LOCATION")
	saturate("OCCUPATION")
	saturate("EDUCATION_LEVEL")
	saturate("HEALTH_CONDITION")
	saturate("AGE")
	saturate("CREDIT_CARD")

	// Raw sum exceeds 100 before clamping.
	assert.Equal(t, 100, p.Score())
}

func TestScorePureRead(t *testing.T) {
	p := New()
	p.Absorb(entity("John", "PERSON"), entity("Albany", "LOCATION"))
	first := p.Score()
	assert.Equal(t, first, p.Score())
	assert.Equal(t, first, p.Score())
}
