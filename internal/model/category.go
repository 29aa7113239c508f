// Package model defines the records shared by every stage of the trip
// planning pipeline: catalog events, interest vectors, scored events and
// the final trip plan.
package model

import "sort"

// Categories is the fixed category enumeration. Catalog columns, interest
// vector keys and scoring all use exactly this set.
var Categories = []string{
	"religious_spiritual", "cultural_heritage", "literature_poetry", "art_exhibition",
	"dance_performing", "film_media", "comedy_standup", "music_classical_folk",
	"music_contemporary", "nightlife", "celebrity_event", "food_culinary",
	"fashion_lifestyle", "wellness_mental", "nature_outdoor", "education_workshop",
	"technology_innovation", "hackathon_coding", "startup_business",
	"academic_conference", "roadshow", "airshow_aviation", "auto_motor",
	"gaming_esports", "science_space", "sports_fitness", "adventure_extreme",
	"community_social", "government_public", "trade_expo",
	"sunset_view", "sunrise_view", "seaside_beach", "mountain_climbing",
	"boating_cruise", "wildlife_safari", "desert_experience", "snow_activity",
	"heritage_walk", "street_festival", "local_fair", "lake_activity",
	"forest_trail", "island_experience", "river_ghat",
}

// TourismCategories is the default scenic/heritage/nature subset that earns
// the tourism bias.
var TourismCategories = []string{
	"seaside_beach", "cultural_heritage", "heritage_walk",
	"sunset_view", "sunrise_view", "mountain_climbing",
	"boating_cruise", "lake_activity", "island_experience",
	"river_ghat", "desert_experience", "snow_activity",
	"wildlife_safari", "forest_trail",
}

var categoryIndex = func() map[string]int {
	m := make(map[string]int, len(Categories))
	for i, c := range Categories {
		m[c] = i
	}
	return m
}()

// IsCategory reports whether name belongs to the category enumeration.
func IsCategory(name string) bool {
	_, ok := categoryIndex[name]
	return ok
}

// CategorySet is a set of category names.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from names.
func NewCategorySet(names ...string) CategorySet {
	s := make(CategorySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether the set contains name.
func (s CategorySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in enumeration order; unknown names sort last
// alphabetically.
func (s CategorySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		ii, iok := categoryIndex[out[i]]
		ji, jok := categoryIndex[out[j]]
		switch {
		case iok && jok:
			return ii < ji
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}
