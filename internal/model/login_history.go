package model

import "time"

// LoginHistory admin paneline yapılan giriş denemeleri
type LoginHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Device    string    `json:"device" gorm:"size:100"` // User-Agent, kısaltılmış
	IP        string    `json:"ip" gorm:"size:50"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

const maxDeviceLength = 100

// DeviceLabel trims a User-Agent header to the stored column size.
func DeviceLabel(userAgent string) string {
	r := []rune(userAgent)
	if len(r) > maxDeviceLength {
		return string(r[:maxDeviceLength])
	}
	return userAgent
}
