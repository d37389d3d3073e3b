package model

import (
	"time"

	"gorm.io/gorm"
)

// UniqueViewWindow is how long repeat views from the same IP are not counted as unique.
const UniqueViewWindow = 24 * time.Hour

// PropertyView bir ilanın public sayfasının tek görüntülenmesi
type PropertyView struct {
	gorm.Model
	PropertyID uint      `json:"property_id" gorm:"index"`
	IP         string    `json:"ip" gorm:"index"`
	UserAgent  string    `json:"user_agent"`
	ViewedAt   time.Time `json:"viewed_at" gorm:"index"`
	IsUnique   bool      `json:"is_unique" gorm:"default:true"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate son 24 saat içinde aynı IP'den görüntüleme varsa kaydı tekil saymaz
func (pv *PropertyView) BeforeCreate(tx *gorm.DB) error {
	if pv.ViewedAt.IsZero() {
		pv.ViewedAt = time.Now()
	}
	pv.IsUnique = true

	var count int64
	err := tx.Model(&PropertyView{}).
		Where("property_id = ? AND ip = ? AND viewed_at > ?",
			pv.PropertyID, pv.IP, pv.ViewedAt.Add(-UniqueViewWindow)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		pv.IsUnique = false
	}
	return nil
}
