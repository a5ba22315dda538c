package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/course-sessions/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "courses", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=courses sslmode=disable", dsn)
}
