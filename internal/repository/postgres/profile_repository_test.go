package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

func TestBuildDiscoverQuery_AgeMinOnly(t *testing.T) {
	query, args := buildDiscoverQuery(repository.DiscoveryFilter{AgeMin: 30})

	assert.Contains(t, query, effectiveAge+" >= $1")
	assert.NotContains(t, query, "<=")
	assert.NotContains(t, query, "BETWEEN")
	assert.Equal(t, []interface{}{30, 500}, args)
}

func TestBuildDiscoverQuery_AgeMaxOnly(t *testing.T) {
	query, args := buildDiscoverQuery(repository.DiscoveryFilter{AgeMax: 40})

	assert.Contains(t, query, effectiveAge+" <= $1")
	assert.NotContains(t, query, ">=")
	assert.Equal(t, []interface{}{40, 500}, args)
}

func TestBuildDiscoverQuery_AgeRange(t *testing.T) {
	query, args := buildDiscoverQuery(repository.DiscoveryFilter{AgeMin: 21, AgeMax: 27})

	assert.Contains(t, query, effectiveAge+" >= $1")
	assert.Contains(t, query, effectiveAge+" <= $2")
	assert.Equal(t, []interface{}{21, 27, 500}, args)
}

func TestBuildDiscoverQuery_NoAgeBounds(t *testing.T) {
	query, args := buildDiscoverQuery(repository.DiscoveryFilter{Limit: 100})

	assert.NotContains(t, query, effectiveAge)
	assert.Equal(t, []interface{}{100}, args)
}

func TestBuildDiscoverQuery_FullFilter(t *testing.T) {
	query, args := buildDiscoverQuery(repository.DiscoveryFilter{
		Gender:     domain.GenderWomen,
		AgeMin:     21,
		AgeMax:     27,
		PhotosOnly: true,
		State:      "Karnataka",
		City:       "Bengaluru",
		Interests:  []string{"Music"},
		Limit:      50,
	})

	assert.Contains(t, query, "gender = $1")
	assert.Contains(t, query, effectiveAge+" >= $2")
	assert.Contains(t, query, effectiveAge+" <= $3")
	assert.Contains(t, query, "cardinality(profile_images) > 0")
	assert.Contains(t, query, "state = $4 AND city = $5")
	assert.Contains(t, query, "interests && $6")
	assert.Contains(t, query, "LIMIT $7")
	assert.Len(t, args, 7)
}
