package listing

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyVilla     PropertyType = "villa"
	PropertyCabin     PropertyType = "cabin"
	PropertyCottage   PropertyType = "cottage"
	PropertyLoft      PropertyType = "loft"
	PropertyRoom      PropertyType = "room"
	PropertyOther     PropertyType = "other"
)

var propertyTypes = map[PropertyType]struct{}{
	PropertyApartment: {},
	PropertyHouse:     {},
	PropertyVilla:     {},
	PropertyCabin:     {},
	PropertyCottage:   {},
	PropertyLoft:      {},
	PropertyRoom:      {},
	PropertyOther:     {},
}

// IsValid returns true if the property type is recognized.
func (p PropertyType) IsValid() bool {
	_, ok := propertyTypes[p]
	return ok
}
