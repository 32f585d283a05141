package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(query, name, url string) AdvertiserRecord {
	return AdvertiserRecord{Query: query, Name: name, DetailURL: url}
}

func TestDeduplicateFirstSeenWins(t *testing.T) {
	records := []AdvertiserRecord{
		rec("a", "Acme", "https://portal.test/adv/1"),
		rec("a", "Bravo", "https://portal.test/adv/2"),
		rec("b", "Acme again", "https://portal.test/adv/1"),
	}

	unique, dropped := Deduplicate(records)

	assert.Equal(t, 1, dropped)
	assert.Len(t, unique, 2)
	assert.Equal(t, "Acme", unique[0].Name)
	assert.Equal(t, "a", unique[0].Query, "the record from the earlier query survives")
	assert.Equal(t, "Bravo", unique[1].Name)
}

func TestDeduplicateKeepsOrder(t *testing.T) {
	records := []AdvertiserRecord{
		rec("a", "C", "https://portal.test/adv/3"),
		rec("a", "A", "https://portal.test/adv/1"),
		rec("a", "B", "https://portal.test/adv/2"),
	}

	unique, dropped := Deduplicate(records)

	assert.Equal(t, 0, dropped)
	assert.Equal(t, []string{"C", "A", "B"}, []string{unique[0].Name, unique[1].Name, unique[2].Name})
}

// URLs that differ only in fragment or trailing slash are the same advertiser
func TestDeduplicateCanonicalizes(t *testing.T) {
	records := []AdvertiserRecord{
		rec("a", "Acme", "https://portal.test/adv/1"),
		rec("b", "Acme", "https://portal.test/adv/1/"),
		rec("c", "Acme", "https://portal.test/adv/1#section"),
	}

	unique, dropped := Deduplicate(records)

	assert.Equal(t, 2, dropped)
	assert.Len(t, unique, 1)
}

func TestDeduplicateEmpty(t *testing.T) {
	unique, dropped := Deduplicate(nil)

	assert.Equal(t, 0, dropped)
	assert.Empty(t, unique)
}
