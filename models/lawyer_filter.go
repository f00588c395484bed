package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LawyerFilter accumulates optional search clauses over lawyer profiles.
// Only authorized lawyers are ever matched.
type LawyerFilter struct {
	scopes []func(*gorm.DB) *gorm.DB
	parts  []string
}

func NewLawyerFilter() *LawyerFilter {
	return &LawyerFilter{}
}

func (f *LawyerFilter) add(part string, scope func(*gorm.DB) *gorm.DB) *LawyerFilter {
	f.parts = append(f.parts, part)
	f.scopes = append(f.scopes, scope)
	return f
}

func (f *LawyerFilter) NameContains(name string) *LawyerFilter {
	pattern := containsPattern(name)
	return f.add("name~"+pattern, func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(lawyers.name) LIKE ? ESCAPE '\'`, pattern)
	})
}

func (f *LawyerFilter) CityContains(city string) *LawyerFilter {
	pattern := containsPattern(city)
	return f.add("city~"+pattern, func(db *gorm.DB) *gorm.DB {
		return db.Where(`lawyers.address_id IN (SELECT id FROM addresses WHERE LOWER(city) LIKE ? ESCAPE '\')`, pattern)
	})
}

func (f *LawyerFilter) StateEquals(state string) *LawyerFilter {
	return f.add("state="+state, func(db *gorm.DB) *gorm.DB {
		return db.Where("lawyers.address_id IN (SELECT id FROM addresses WHERE state = ?)", state)
	})
}

func (f *LawyerFilter) RatingEquals(rating int) *LawyerFilter {
	return f.add(fmt.Sprintf("rating=%d", rating), func(db *gorm.DB) *gorm.DB {
		return db.Where("lawyers.rating = ?", rating)
	})
}

func (f *LawyerFilter) PracticeArea(areaID int) *LawyerFilter {
	return f.add(fmt.Sprintf("area=%d", areaID), func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"EXISTS (SELECT 1 FROM lawyer_areas WHERE lawyer_areas.lawyer_id = lawyers.id AND lawyer_areas.practice_area_id = ?)",
			areaID,
		)
	})
}

func (f *LawyerFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	scopes := make([]func(*gorm.DB) *gorm.DB, 0, len(f.scopes)+1)
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where("lawyers.authorized = ?", true)
	})
	return append(scopes, f.scopes...)
}

// Key identifies the filter combination, e.g. for caching results.
func (f *LawyerFilter) Key() string {
	if len(f.parts) == 0 {
		return "all"
	}
	return strings.Join(f.parts, "|")
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
