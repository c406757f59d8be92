package mysql

import (
	"database/sql"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/sirupsen/logrus"
)

const (
	DatabaseName = "utxo"
	defaultAddr  = "127.0.0.1:3306"
)

var log = logrus.WithField("prefix", "MySQL")

func NewStore(config *iface.SQLConfig) (*sql.DB, []string, error) {
	path := config.ConfigPath
	if path == "" {
		return nil, nil, errors.New("Empty database cfg path.")
	}

	err := godotenv.Load(path)
	if err != nil {
		return nil, nil, errors.Errorf("Error loading .env file %s.", path)
	}

	dsn := mysql.NewConfig()
	dsn.User = os.Getenv("DB_USER")
	dsn.Passwd = os.Getenv("DB_PASS")
	dsn.Net = "tcp"
	dsn.Addr = envOr("DB_HOST", defaultAddr)
	if port := os.Getenv("DB_PORT"); port != "" {
		dsn.Addr = envOr("DB_HOST", "127.0.0.1") + ":" + port
	}
	dsn.DBName = envOr("DB_NAME", DatabaseName)

	log.Info("Database config was parsed successfully.")

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, nil, err
	}

	return db, utxoSchema, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
