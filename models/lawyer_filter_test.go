package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLawyerFilterKey(t *testing.T) {
	assert.Equal(t, "all", NewLawyerFilter().Key())

	f := NewLawyerFilter().NameContains("Ana").StateEquals("SP").RatingEquals(5)
	assert.Equal(t, "name~%ana%|state=SP|rating=5", f.Key())
	assert.Len(t, f.Scopes(), 4)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, containsPattern("50% OFF_now"))
}
