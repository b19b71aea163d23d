package models

type Category string

const (
	CategoryCasual     Category = "Casual"
	CategoryFormal     Category = "Formal"
	CategoryParty      Category = "Party"
	CategoryWedding    Category = "Wedding"
	CategoryStreetwear Category = "Streetwear"
	CategorySports     Category = "Sports"
	CategoryBeach      Category = "Beach"
	CategoryWinter     Category = "Winter"
	CategorySummer     Category = "Summer"
	CategoryOffice     Category = "Office"
	CategoryEthnic     Category = "Ethnic"
	CategoryVintage    Category = "Vintage"
	CategoryBohemian   Category = "Bohemian"
	CategoryLoungewear Category = "Loungewear"
	CategoryFestive    Category = "Festive"
)

var Categories = []Category{
	CategoryCasual, CategoryFormal, CategoryParty, CategoryWedding, CategoryStreetwear,
	CategorySports, CategoryBeach, CategoryWinter, CategorySummer, CategoryOffice,
	CategoryEthnic, CategoryVintage, CategoryBohemian, CategoryLoungewear, CategoryFestive,
}

func (c Category) Valid() bool { return contains(Categories, c) }

type Section string

const (
	SectionMen    Section = "Men"
	SectionWomen  Section = "Women"
	SectionKids   Section = "Kids"
	SectionUnisex Section = "Unisex"
)

var Sections = []Section{SectionMen, SectionWomen, SectionKids, SectionUnisex}

func (s Section) Valid() bool { return contains(Sections, s) }

type OutfitType string

const (
	OutfitNormal    OutfitType = "Normal"
	OutfitSponsored OutfitType = "Sponsored"
	OutfitPromoted  OutfitType = "Promoted"
)

var OutfitTypes = []OutfitType{OutfitNormal, OutfitSponsored, OutfitPromoted}

func (t OutfitType) Valid() bool { return contains(OutfitTypes, t) }

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) Valid() bool { return contains(Genders, g) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
