package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name, dsn, env, want string
	}{
		{"dev url", "postgres://u:p@localhost:5432/db", "development", "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"dev url with params", "postgres://u:p@localhost/db?x=1", "development", "postgres://u:p@localhost/db?x=1&sslmode=disable"},
		{"dev keyword", "host=localhost dbname=db", "development", "host=localhost dbname=db sslmode=disable"},
		{"dev explicit sslmode", "postgres://localhost/db?sslmode=require", "development", "postgres://localhost/db?sslmode=require"},
		{"prod url", "postgres://u:p@db/app", "production", "postgres://u:p@db/app?prefer_simple_protocol=true"},
		{"prod already set", "postgres://db/app?prefer_simple_protocol=true", "production", "postgres://db/app?prefer_simple_protocol=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDSN(tt.dsn, tt.env))
		})
	}
}
