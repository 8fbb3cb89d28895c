package services

import (
	"context"
	"errors"

	"hotel-frontdesk/models"

	"gorm.io/gorm"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Hotel returns the single settings row, or an empty one before first save.
func (s *SettingsService) Hotel(ctx context.Context) (models.HotelSetting, error) {
	var hotel models.HotelSetting
	err := s.DB.WithContext(ctx).First(&hotel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.HotelSetting{}, nil
	}
	return hotel, err
}

func (s *SettingsService) SaveHotel(ctx context.Context, in models.HotelSetting) (models.HotelSetting, error) {
	current, err := s.Hotel(ctx)
	if err != nil {
		return models.HotelSetting{}, err
	}
	in.ID = current.ID
	in.CreatedAt = current.CreatedAt
	if err := s.DB.WithContext(ctx).Save(&in).Error; err != nil {
		return models.HotelSetting{}, err
	}
	return in, nil
}
