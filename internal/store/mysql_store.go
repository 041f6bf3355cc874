package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/ipinfo/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// IPLookupModel is the GORM model for the ip_lookups table.
// Optional fields are nullable columns, mirroring the pointer fields on
// models.IPInfo.
type IPLookupModel struct {
	IP        string    `gorm:"column:ip;primaryKey"`
	Hostname  *string   `gorm:"column:hostname"`
	City      *string   `gorm:"column:city"`
	Region    *string   `gorm:"column:region"`
	Country   *string   `gorm:"column:country"`
	Latitude  *float64  `gorm:"column:latitude"`
	Longitude *float64  `gorm:"column:longitude"`
	Org       *string   `gorm:"column:org"`
	Postal    *string   `gorm:"column:postal"`
	Timezone  *string   `gorm:"column:timezone"`
	Bogon     bool      `gorm:"column:bogon"`
	FetchedAt time.Time `gorm:"column:fetched_at"`
}

// TableName overrides GORM's default pluralization.
func (IPLookupModel) TableName() string {
	return "ip_lookups"
}

// MySQLStore implements Store using MySQL with GORM, giving the lookup
// cache durability across restarts.
type MySQLStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time // Injectable clock for tests
}

// NewMySQLStore creates a MySQL-backed cache.
//
// dsn format: user:password@tcp(host:port)/dbname?parseTime=true
func NewMySQLStore(dsn string, ttl time.Duration) (*MySQLStore, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	if err := db.AutoMigrate(&IPLookupModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ip_lookups table: %w", err)
	}

	return &MySQLStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached result for an IP address. Rows older than the
// TTL count as a miss; they are overwritten by the next Set.
func (s *MySQLStore) Get(ip string) (*models.IPInfo, error) {
	var record IPLookupModel

	result := s.db.Where("ip = ?", ip).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("database query failed: %w", result.Error)
	}

	if s.ttl > 0 && s.now().Sub(record.FetchedAt) > s.ttl {
		return nil, ErrCacheMiss
	}

	return record.toInfo(), nil
}

// Set caches the result for an IP address, replacing any existing row.
func (s *MySQLStore) Set(ip string, info *models.IPInfo) error {
	record := fromInfo(ip, info, s.now())

	// Upsert so a refreshed lookup replaces the stale row
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to store lookup: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// toInfo converts a database row to the domain model.
func (r *IPLookupModel) toInfo() *models.IPInfo {
	info := &models.IPInfo{
		IP:       r.IP,
		Hostname: r.Hostname,
		City:     r.City,
		Region:   r.Region,
		Country:  r.Country,
		Org:      r.Org,
		Postal:   r.Postal,
		Timezone: r.Timezone,
		Bogon:    r.Bogon,
	}

	if r.Latitude != nil && r.Longitude != nil {
		info.Location = &models.Location{
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		}
	}

	return info
}

// fromInfo converts the domain model to a database row.
func fromInfo(ip string, info *models.IPInfo, fetchedAt time.Time) *IPLookupModel {
	record := &IPLookupModel{
		IP:        ip,
		Hostname:  info.Hostname,
		City:      info.City,
		Region:    info.Region,
		Country:   info.Country,
		Org:       info.Org,
		Postal:    info.Postal,
		Timezone:  info.Timezone,
		Bogon:     info.Bogon,
		FetchedAt: fetchedAt,
	}

	if info.Location != nil {
		lat, lon := info.Location.Latitude, info.Location.Longitude
		record.Latitude = &lat
		record.Longitude = &lon
	}

	return record
}
