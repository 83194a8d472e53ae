package models

import "time"

// ActivityLog records an administrative action on roles, permissions or layouts.
type ActivityLog struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	RequestID    string    `gorm:"size:36;index" json:"requestId"`
	Module       string    `gorm:"size:50;not null;index" json:"module"`
	ActivityType string    `gorm:"size:50;not null" json:"activityType"`
	Description  string    `gorm:"size:255" json:"description"`
	Status       string    `gorm:"size:20;not null" json:"status"`
	Context      string    `gorm:"type:text" json:"context,omitempty"`
	UserID       *uint64   `gorm:"index" json:"userId,omitempty"`
	UserName     string    `gorm:"size:150" json:"userName"`
	IPAddress    string    `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent    string    `gorm:"size:255" json:"userAgent,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the database table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}
