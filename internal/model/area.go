package model

import "gorm.io/gorm"

// Area bir bölgeyi (district) temsil eder. Import sırasında ilk referansta oluşturulur.
type Area struct {
	gorm.Model
	Name   string `json:"name" gorm:"not null"`
	NameEn string `json:"name_en"`
	City   string `json:"city" gorm:"not null"`
	Slug   string `json:"slug" gorm:"uniqueIndex;not null"`

	Properties []Property `json:"-"`
}

type Developer struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Logo    string `json:"logo"`
	Website string `json:"website"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`

	Properties []Property `json:"-"`
}
