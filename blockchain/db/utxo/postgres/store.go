package postgres

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/sirupsen/logrus"
)

const DatabaseName = "utxo"

var log = logrus.WithField("prefix", "Postgres")

// Options are taken from the dotenv file given in the SQL config.
type Options struct {
	User     string
	Password string
	Host     string
	Port     int
	Name     string
	SSLMode  string
}

func (o *Options) dsn() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=%s host=%s port=%d",
		o.User, o.Password, o.Name, o.SSLMode, o.Host, o.Port)
}

func loadOptions(path string) (*Options, error) {
	if path == "" {
		return nil, errors.New("Empty database cfg path.")
	}

	if err := godotenv.Load(path); err != nil {
		return nil, errors.Errorf("Error loading .env file %s.", path)
	}

	opts := &Options{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASS"),
		Host:     os.Getenv("DB_HOST"),
		Port:     5432,
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}

	if opts.Name == "" {
		opts.Name = DatabaseName
	}

	if opts.SSLMode == "" {
		opts.SSLMode = "disable"
	}

	if port := os.Getenv("DB_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, errors.Wrapf(err, "bad DB_PORT %q", port)
		}
		opts.Port = p
	}

	return opts, nil
}

func NewStore(config *iface.SQLConfig) (*sql.DB, []string, error) {
	opts, err := loadOptions(config.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("postgres", opts.dsn())
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open postgres DB")
	}

	log.Infof("Using postgres DB: %s@%s:%d/%s", opts.User, opts.Host, opts.Port, opts.Name)

	return db, utxoSchema, nil
}
