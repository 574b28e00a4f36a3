package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextrocado/edumanage/internal/model"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jose antonio", NormalizeName("José António"))
	assert.Equal(t, "maria joao", NormalizeName("  Maria-João  "))
	assert.Equal(t, "ana", NormalizeName("ANA!"))
	assert.Equal(t, "", NormalizeName("  ...  "))
}

func TestTokenMatcher_ExactAfterFolding(t *testing.T) {
	m := TokenMatcher{}
	assert.True(t, m.Match("José Silva", "jose silva"))
	assert.True(t, m.Match("MARIA JOÃO", "Maria Joao"))
}

func TestTokenMatcher_TwoSharedTokens(t *testing.T) {
	m := TokenMatcher{}
	// Middle names differ but two significant tokens overlap.
	assert.True(t, m.Match("Ana Silva Costa", "Ana Maria Costa"))
	// Particles like "de"/"da" never count toward the overlap.
	assert.True(t, m.Match("João de Sousa Ferreira", "Joao da Silva Sousa Ferreira"))
	// Only one shared token is not enough for multi-token names.
	assert.False(t, m.Match("Ana Silva", "Ana Costa"))
}

func TestTokenMatcher_SingleTokenExact(t *testing.T) {
	m := TokenMatcher{}
	assert.True(t, m.Match("António", "José António Marques"))
	assert.False(t, m.Match("Antonia", "José António Marques"))
}

func TestTokenMatcher_Empty(t *testing.T) {
	m := TokenMatcher{}
	assert.False(t, m.Match("", "Ana Silva"))
	assert.False(t, m.Match("Ana Silva", ""))
}

func TestFindStudent(t *testing.T) {
	students := []model.Student{
		{ID: "s1", Name: "Ana Maria Costa"},
		{ID: "s2", Name: "José António Marques"},
	}

	got := FindStudent(students, "Jose Antonio", TokenMatcher{})
	require.NotNil(t, got)
	assert.Equal(t, "s2", got.ID)

	assert.Nil(t, FindStudent(students, "Bruno Dias", TokenMatcher{}))
}
