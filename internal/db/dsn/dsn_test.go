package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StoreAdmin/StoreAdmin/internal/config"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		db   config.DB
		want string
	}{
		{
			name: "mysql",
			db: config.DB{
				GormEngine: config.EngineMySQL,
				User:       "store",
				Password:   "pw",
				Host:       "db",
				Port:       3306,
				Name:       "store",
				Extras:     "parseTime=true",
			},
			want: "store:pw@tcp(db:3306)/store?parseTime=true",
		},
		{
			name: "postgres",
			db: config.DB{
				GormEngine: config.EnginePostgres,
				User:       "store",
				Password:   "pw",
				Host:       "db",
				Port:       5432,
				Name:       "store",
				Extras:     "sslmode=disable",
			},
			want: "host=db port=5432 user=store password=pw dbname=store sslmode=disable",
		},
		{
			name: "sqlite",
			db:   config.DB{GormEngine: config.EngineSQLite, Name: "store-admin.db"},
			want: "store-admin.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Create(&config.Config{DB: tt.db}))
		})
	}
}

func TestURIPostgres(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: config.EnginePostgres,
		User:       "store",
		Password:   "pw",
		Host:       "db",
		Port:       5432,
		Name:       "store",
		Extras:     "sslmode=disable",
	}}

	assert.Equal(t, "postgres://store:pw@db:5432/store?sslmode=disable", URI(cfg))
}
