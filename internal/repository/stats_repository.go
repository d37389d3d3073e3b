package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"estate_portal/internal/model"
)

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalListings     int64         `json:"total_listings"`
	PublishedListings int64         `json:"published_listings"`
	TotalViews        int64         `json:"total_views"`
	UniqueViews       int64         `json:"unique_views"`
	TopProperties     []TopProperty `json:"top_properties"`
	DailyStats        []DailyStat   `json:"daily_stats"`
	Districts         []GroupCount  `json:"districts"`
	Types             []GroupCount  `json:"property_types"`
}

type TopProperty struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	District  string  `json:"district"`
	Price     float64 `json:"price"`
	Views     int64   `json:"views"`
	MainImage string  `json:"main_image"`
}

type DailyStat struct {
	Date        string `json:"date"`
	Views       int64  `json:"views"`
	NewListings int64  `json:"new_listings"`
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) RecordView(ctx context.Context, propertyID uint, ip, userAgent string) error {
	return r.db.WithContext(ctx).Create(&model.PropertyView{
		PropertyID: propertyID,
		IP:         ip,
		UserAgent:  userAgent,
	}).Error
}

// Dashboard aggregates listing and view counters; days is the length of the daily series.
func (r *StatsRepository) Dashboard(ctx context.Context, days int) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&model.Property{}).Count(&stats.TotalListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Property{}).Where("is_published = ?", true).Count(&stats.PublishedListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.PropertyView{}).Count(&stats.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.PropertyView{}).Where("is_unique = ?", true).Count(&stats.UniqueViews).Error; err != nil {
		return nil, err
	}

	// En çok görüntülenen 5 ilan
	err := db.Table("properties").
		Select("properties.id, properties.title, properties.slug, properties.district, properties.price, COUNT(property_views.id) AS views").
		Joins("LEFT JOIN property_views ON properties.id = property_views.property_id").
		Where("properties.deleted_at IS NULL").
		Group("properties.id").
		Order("views DESC").
		Limit(5).
		Scan(&stats.TopProperties).Error
	if err != nil {
		return nil, err
	}
	for i := range stats.TopProperties {
		var main model.PropertyImage
		if err := db.Where("property_id = ? AND is_main = ?", stats.TopProperties[i].ID, true).
			Limit(1).Find(&main).Error; err == nil {
			stats.TopProperties[i].MainImage = main.URL
		}
	}

	if days < 1 {
		days = 7
	}
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		stat := DailyStat{Date: date}
		db.Model(&model.PropertyView{}).Where("DATE(viewed_at) = ?", date).Count(&stat.Views)
		db.Model(&model.Property{}).Where("DATE(created_at) = ?", date).Count(&stat.NewListings)
		stats.DailyStats = append(stats.DailyStats, stat)
	}

	if err := groupCount(db, "district", &stats.Districts); err != nil {
		return nil, err
	}
	if err := groupCount(db, "type", &stats.Types); err != nil {
		return nil, err
	}
	return &stats, nil
}

func groupCount(db *gorm.DB, column string, out *[]GroupCount) error {
	return db.Model(&model.Property{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(out).Error
}
