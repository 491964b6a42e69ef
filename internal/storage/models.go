package storage

import "time"

// Top-level document fields. Each is encoded on its own so backends can
// overwrite them independently.
const (
	fieldHistory     = "history"
	fieldRewards     = "rewards"
	fieldChores      = "chores"
	fieldStats       = "stats"
	fieldLastUpdated = "lastUpdated"
)

// ProfileRecord is the row shape shared by the SQL backends. JSON columns
// hold the encoded top-level fields; an empty string means the field is absent.
type ProfileRecord struct {
	UserID      string    `gorm:"column:user_id;primaryKey"`
	History     string    `gorm:"column:history;type:jsonb"`
	Rewards     string    `gorm:"column:rewards;type:jsonb"`
	Chores      string    `gorm:"column:chores;type:jsonb"`
	Stats       string    `gorm:"column:stats;type:jsonb"`
	LastUpdated time.Time `gorm:"column:last_updated"`
}

func (ProfileRecord) TableName() string { return "profiles" }
