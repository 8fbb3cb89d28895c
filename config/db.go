package config

import (
	"fmt"
	stdlog "log"
	"net/url"
	"strings"
	"time"

	"hotel-frontdesk/access"
	"hotel-frontdesk/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const defaultAdminUser = "admin@hotel.local"

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// resolveDSN returns the DSN and the driver kind ("mysql" or "postgres").
func resolveDSN(cfg *Config) (string, string, error) {
	raw := strings.TrimSpace(cfg.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(cfg.DatabaseURL)
	}

	if raw != "" {
		switch {
		case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
			return raw, "postgres", nil
		case strings.HasPrefix(raw, "mysql://"):
			dsn, err := mysqlDSNFromURL(raw)
			return dsn, "mysql", err
		default:
			return raw, "mysql", nil
		}
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	return dsn, "mysql", nil
}

// GormLogger routes gorm's logger through zerolog.
func GormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn, kind, err := resolveDSN(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}

	var dialector gorm.Dialector
	if kind == "postgres" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: GormLogger(level)})
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", kind).Msg("database connected")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedDatabase(db); err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

// Migrate runs AutoMigrate in parent -> child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.HotelSetting{},
		&models.Role{},
		&models.RolePermission{},
		&models.RoleMember{},
		&models.Room{},
		&models.Guest{},
		&models.ShiftEvent{},
	)
}

// SeedDatabase creates the default admin, roles with their default
// capability sets, and a handful of rooms on an empty database.
func SeedDatabase(db *gorm.DB) error {
	// ---------------- Admins ----------------
	var adminCount int64
	db.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash default admin password: %w", err)
		}
		admin := models.Admin{FullName: "Admin User", Username: defaultAdminUser, Password: string(hash)}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("create default admin: %w", err)
		}
		log.Info().Str("username", admin.Username).Msg("default admin seeded")
	}

	// ---------------- Roles ----------------
	descriptions := map[string]string{
		access.OwnerRole: "System owner with full access",
		"manager":        "Manager with elevated access",
		"receptionist":   "Front desk operations",
		"cleaner":        "Housekeeping access",
	}
	for name, perms := range access.Defaults() {
		var role models.Role
		err := db.Where("LOWER(name) = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		role = models.Role{Name: name, Description: descriptions[name]}
		if err := db.Create(&role).Error; err != nil {
			log.Warn().Err(err).Str("role", name).Msg("failed to create role")
			continue
		}
		rows := make([]models.RolePermission, 0, len(perms))
		for _, p := range perms {
			rows = append(rows, models.RolePermission{RoleID: role.ID, Permission: p})
		}
		if len(rows) > 0 {
			if err := db.Create(&rows).Error; err != nil {
				log.Warn().Err(err).Str("role", name).Msg("failed to create role permissions")
			}
		}
	}

	var owner models.Role
	if err := db.Where("LOWER(name) = ?", access.OwnerRole).First(&owner).Error; err == nil {
		var memberCount int64
		db.Model(&models.RoleMember{}).Where("role_id = ?", owner.ID).Count(&memberCount)
		if memberCount == 0 {
			var admin models.Admin
			if err := db.Where("username = ?", defaultAdminUser).First(&admin).Error; err == nil {
				if err := db.Create(&models.RoleMember{RoleID: owner.ID, AdminID: admin.ID}).Error; err != nil {
					log.Warn().Err(err).Msg("failed to assign admin to owner role")
				}
			}
		}
	}

	// ---------------- Rooms ----------------
	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", Type: "Standard", Floor: "1", Status: "available", Price: decimal.NewFromInt(1500), MaxOccupancy: 2},
			{RoomNumber: "102", Type: "Standard", Floor: "1", Status: "available", Price: decimal.NewFromInt(1500), MaxOccupancy: 2},
			{RoomNumber: "201", Type: "Deluxe", Floor: "2", Status: "available", Price: decimal.NewFromInt(2500), MaxOccupancy: 3},
			{RoomNumber: "301", Type: "Suite", Floor: "3", Status: "available", Price: decimal.NewFromInt(4000), MaxOccupancy: 4},
		}
		if err := db.Create(&rooms).Error; err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		log.Info().Int("count", len(rooms)).Msg("rooms seeded")
	}

	return nil
}
