package services

import (
	"fmt"
	"testing"
	"time"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/config"
	"hotel-frontdesk/events"
	"hotel-frontdesk/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB, number, status string, price int64) models.Room {
	t.Helper()
	room := models.Room{RoomNumber: number, Type: "Deluxe", Status: status, Price: decimal.NewFromInt(price)}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func reloadRoom(t *testing.T, db *gorm.DB, id uint) models.Room {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, id).Error)
	return room
}

type fixture struct {
	db     *gorm.DB
	events *events.Memory
	rooms  *RoomService
	stays  *StayService
}

var fixedNow = time.Date(2024, 1, 4, 11, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) fixture {
	db := newTestDB(t)
	pub := &events.Memory{}
	locker := NewLocalLocker()
	stays := NewStayService(db, locker, pub, billing.NewRates(12, 5))
	stays.Now = func() time.Time { return fixedNow }
	return fixture{
		db:     db,
		events: pub,
		rooms:  NewRoomService(db, locker, pub),
		stays:  stays,
	}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func seedAdmin(db *gorm.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	return db.Create(&models.Admin{FullName: "Desk", Username: username, Password: string(hash)}).Error
}
