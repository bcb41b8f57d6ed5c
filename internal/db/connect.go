package db

import (
	"fmt"
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/zulandar/bookmarky/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteParams enables foreign keys and waits on a locked database file
// instead of failing immediately.
const sqliteParams = "?_foreign_keys=on&_busy_timeout=5000"

// DSN builds the driver-specific data source name for cfg.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverMySQL {
		return mysqlConfig(cfg, cfg.Name).FormatDSN()
	}
	return cfg.Path + sqliteParams
}

func mysqlConfig(cfg config.DatabaseConfig, database string) *gomysql.Config {
	mc := gomysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = database
	mc.ParseTime = true
	return mc
}

// Connect opens a GORM connection for the configured driver.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(DSN(cfg))
	case config.DriverSQLite, "":
		dialector = sqlite.Open(DSN(cfg))
	default:
		return nil, fmt.Errorf("db: unknown driver %q", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s: %w", describe(cfg), err)
	}
	return db, nil
}

// ConnectAdmin opens a GORM connection to the MySQL server without selecting
// a specific database, used for CREATE DATABASE operations.
func ConnectAdmin(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(mysqlConfig(cfg, "").FormatDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}

// EnsureDatabase creates the configured MySQL database when missing. SQLite
// files are created on first connect, so it is a no-op there.
func EnsureDatabase(cfg config.DatabaseConfig) error {
	if cfg.Driver != config.DriverMySQL {
		return nil
	}
	adminDB, err := ConnectAdmin(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := adminDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	return CreateDatabase(adminDB, cfg.Name)
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db: close: %w", err)
	}
	return sqlDB.Close()
}

func describe(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverMySQL {
		return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
	}
	return cfg.Path
}
