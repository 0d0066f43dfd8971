package region

import (
	"strings"

	"github.com/bilgisen/regionews/internal/models"
	"github.com/samber/lo"
)

// Region identifiers
const (
	DNR = "DNR"
	LNR = "LNR"
	ZO  = "ZO"
	HO  = "HO"
)

var regions = []models.Region{
	{Key: DNR, Name: "ДНР", FullName: "Донецкая Народная Республика", Color: "bg-blue-600"},
	{Key: LNR, Name: "ЛНР", FullName: "Луганская Народная Республика", Color: "bg-red-600"},
	{Key: ZO, Name: "Запорожье", FullName: "Запорожская область", Color: "bg-green-600"},
	{Key: HO, Name: "Херсон", FullName: "Херсонская область", Color: "bg-yellow-600"},
}

// All returns every supported region in display order.
func All() []models.Region {
	out := make([]models.Region, len(regions))
	copy(out, regions)
	return out
}

// Keys returns the identifiers of all regions in display order.
func Keys() []string {
	return lo.Map(regions, func(r models.Region, _ int) string {
		return r.Key
	})
}

// Lookup finds a region by identifier, ignoring case.
func Lookup(key string) (models.Region, bool) {
	key = strings.ToUpper(strings.TrimSpace(key))
	return lo.Find(regions, func(r models.Region) bool {
		return r.Key == key
	})
}

// Valid reports whether key names a known region.
func Valid(key string) bool {
	_, ok := Lookup(key)
	return ok
}
