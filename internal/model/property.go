package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property Types
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypePenthouse PropertyType = "penthouse"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeDuplex    PropertyType = "duplex"
	PropertyTypeLand      PropertyType = "land"
)

// Property Status
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusSold        PropertyStatus = "sold"
	PropertyStatusRented      PropertyStatus = "rented"
	PropertyStatusReserved    PropertyStatus = "reserved"
	PropertyStatusUnavailable PropertyStatus = "unavailable"
)

// Currency Types
type Currency string

const (
	CurrencyAED Currency = "AED"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyRUB Currency = "RUB"
)

// Gallery entries share one table; videos are ordered after images.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Property struct {
	gorm.Model
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	Currency    Currency       `json:"currency" gorm:"not null;default:AED"`
	Type        PropertyType   `json:"type" gorm:"not null"`
	Status      PropertyStatus `json:"status" gorm:"not null;index"`

	AreaSqm   float64 `json:"area_sqm"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	Parking   int     `json:"parking"`

	// Location fields
	City     string `json:"city" gorm:"not null"`
	District string `json:"district" gorm:"index"`
	Address  string `json:"address" gorm:"type:text"`

	AreaID      uint  `json:"area_id" gorm:"not null;index"`
	DeveloperID *uint `json:"developer_id" gorm:"index"`

	Features  datatypes.JSONSlice[string] `json:"features"`
	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	// SEO
	Slug            string `json:"slug" gorm:"uniqueIndex;not null"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description" gorm:"type:text"`

	IsPublished bool `json:"is_published" gorm:"default:false;index"`
	IsFeatured  bool `json:"is_featured" gorm:"default:false"`

	// İlişkiler
	Area      Area            `json:"area,omitempty" gorm:"foreignKey:AreaID"`
	Developer *Developer      `json:"developer,omitempty" gorm:"foreignKey:DeveloperID"`
	Images    []PropertyImage `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Files     []PropertyFile  `json:"files" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

type PropertyImage struct {
	gorm.Model
	PropertyID   uint      `json:"property_id" gorm:"not null;index"`
	URL          string    `json:"url" gorm:"not null"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Alt          string    `json:"alt"`
	MediaType    MediaType `json:"media_type" gorm:"not null;default:image"`
	IsMain       bool      `json:"is_main" gorm:"default:false"`
	Order        int       `json:"order" gorm:"default:0"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

type PropertyFile struct {
	gorm.Model
	PropertyID uint   `json:"property_id" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null"`
	Label      string `json:"label"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	Order      int    `json:"order" gorm:"default:0"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// ValidPropertyType reports whether t is one of the known property types.
func ValidPropertyType(t PropertyType) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeVilla, PropertyTypeTownhouse, PropertyTypePenthouse,
		PropertyTypeStudio, PropertyTypeOffice, PropertyTypeDuplex, PropertyTypeLand:
		return true
	}
	return false
}

// ValidPropertyStatus reports whether s is one of the known statuses.
func ValidPropertyStatus(s PropertyStatus) bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusSold, PropertyStatusRented,
		PropertyStatusReserved, PropertyStatusUnavailable:
		return true
	}
	return false
}
