package models

import "time"

type Service struct {
	ID               int64     `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	Description      string    `json:"description" yaml:"description"`
	Category         string    `json:"category" yaml:"category"`
	BasePrice        float64   `json:"base_price" yaml:"base_price"`
	Icon             string    `json:"icon,omitempty" yaml:"icon"`
	IsActive         bool      `json:"is_active" yaml:"is_active"`
	EstimatedMinutes int64     `json:"estimated_minutes" yaml:"estimated_minutes"`
	CreatedAt        time.Time `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"-"`
}

func (s *Service) Summary() *ServiceSummary {
	if s == nil {
		return nil
	}
	return &ServiceSummary{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		BasePrice: s.BasePrice,
	}
}

type ServiceSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"base_price"`
}

// ServiceUpdate carries a partial change: nil fields keep stored values.
type ServiceUpdate struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category"`
	BasePrice        *float64 `json:"base_price"`
	Icon             *string  `json:"icon"`
	IsActive         *bool    `json:"is_active"`
	EstimatedMinutes *int64   `json:"estimated_minutes"`
}
