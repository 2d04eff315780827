package database

import (
	"co_attainment_backend/internal/config"
	"co_attainment_backend/internal/model"
	"co_attainment_backend/pkg/logger"
	"net"
	"strconv"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN 由 DatabaseConfig 构造 MySQL 连接串，密码中的特殊字符由驱动负责转义
func DSN(cfg *config.DatabaseConfig) string {
	mc := mysqldriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.DBName
	mc.ParseTime = cfg.ParseTime
	if cfg.Charset != "" {
		mc.Params = map[string]string{"charset": cfg.Charset}
	}
	return mc.FormatDSN()
}

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	level := gormlogger.Warn
	if mode == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established")
	return db, nil
}

// Migrate 建表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.SubmissionRecord{}); err != nil {
		return err
	}
	logger.Log.Info("Database migration completed")
	return nil
}
