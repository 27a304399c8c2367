package model

// Building categories supported by the valuation engine
const (
	CategoryHigherVilla      = "Higher Villa"
	CategoryMultiStory       = "Multi-Story Building"
	CategoryApartment        = "Apartment / Condominium"
	CategoryMPHFactory       = "MPH & Factory Building"
	CategoryFuelStation      = "Fuel Station"
	CategoryCoffeeSite       = "Coffee Washing Site"
	CategoryGreenHouse       = "Green House"
)

// ValidCategories lists every selectable building category, in menu order.
var ValidCategories = []string{
	CategoryHigherVilla,
	CategoryMultiStory,
	CategoryApartment,
	CategoryMPHFactory,
	CategoryFuelStation,
	CategoryCoffeeSite,
	CategoryGreenHouse,
}

// Quality grades, best first
const (
	GradeExcellent = "Excellent"
	GradeGood      = "Good"
	GradeAverage   = "Average"
	GradeEconomy   = "Economy"
	GradeMinimum   = "Minimum"
)

// ValidGrades lists building quality grades, in menu order.
var ValidGrades = []string{GradeExcellent, GradeGood, GradeAverage, GradeEconomy, GradeMinimum}

// ValidUseTypes lists general property use types.
var ValidUseTypes = []string{"Residential", "Commercial"}

// ValidPlotGrades lists plot grade classifications in canonical order.
// Plot grade is never asked from the user; the pipeline selects one from
// the location tables (see valuation.SelectPlotGrade).
var ValidPlotGrades = []string{"1st", "2nd", "3rd", "4th"}

// ValidTownClasses lists property town/location categories, in menu order.
var ValidTownClasses = []string{
	"Finfinne Border A1",
	"Surrounding Finfine B1",
	"Surrounding Finfine B2",
	"Surrounding Finfine B3",
	"Major Cities C1",
	"Major Cities C2",
	"Secondary Major Cities D1",
	"Secondary Major Cities D2",
	"Tertiary Towns E1",
	"Tertiary Towns E2",
}

// IsSpecializedCategory reports whether a category is valued purely from
// fixed unit rates over its component quantities, with no dimension,
// material or grade questions.
func IsSpecializedCategory(category string) bool {
	switch category {
	case CategoryFuelStation, CategoryCoffeeSite, CategoryGreenHouse:
		return true
	}
	return false
}

// IsGenericCategory reports whether a category goes through the rate
// bracket / grade / replacement-cost path.
func IsGenericCategory(category string) bool {
	switch category {
	case CategoryHigherVilla, CategoryMultiStory, CategoryApartment, CategoryMPHFactory:
		return true
	}
	return false
}

// VariesByFloorBracket reports whether the category's base rate depends on
// the floor count. Higher Villa always prices on the single-story bracket,
// so the floor question is skipped for it.
func VariesByFloorBracket(category string) bool {
	switch category {
	case CategoryMultiStory, CategoryApartment, CategoryMPHFactory:
		return true
	}
	return false
}
