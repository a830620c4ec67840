package reclog

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DecodedPacket is one gorm-persisted row: one per successfully
// decoded packet, opt-in alongside the always-on CSV trail.
type DecodedPacket struct {
	ID          uint `gorm:"primaryKey"`
	DecodedAt   time.Time
	Mode        string
	Accuracy    float64
	Correlation float64
	ByteLength  int
	FirstBytes  string
}

// Store wraps a gorm DB handle scoped to decoded-packet persistence.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (or creates) a SQLite database at path and migrates
// the DecodedPacket table.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DecodedPacket{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Record inserts one decoded-packet row.
func (s *Store) Record(e Entry) error {
	row := DecodedPacket{
		DecodedAt:   e.Time,
		Mode:        e.Mode,
		Accuracy:    e.Accuracy,
		Correlation: e.Correlation,
		ByteLength:  e.ByteLength,
		FirstBytes:  e.FirstBytes,
	}
	return s.db.Create(&row).Error
}

// Recent returns the most recent n decoded-packet rows, newest first.
func (s *Store) Recent(n int) ([]DecodedPacket, error) {
	var rows []DecodedPacket
	err := s.db.Order("decoded_at desc").Limit(n).Find(&rows).Error
	return rows, err
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
