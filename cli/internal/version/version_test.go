package version

import (
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
)

func TestCheckServer(t *testing.T) {
	tests := []struct {
		engine  string
		server  string
		wantErr bool
	}{
		{"sqlite", "3.45.1", false},
		{"sqlite", "3.22.0", true},
		{"sqlite3", "3.22.0", true},
		{"SQLite", "3.45.1", false},
		{"postgres", "16.2", false},
		{"postgres", "9.6.24", true},
		{"postgresql", "9.6.24", true},
		{"mysql", "8.0.36-0ubuntu0.22.04.1", false},
		{"oracle", "1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.engine+"-"+tt.server, func(t *testing.T) {
			err := CheckServer(tt.engine, goversion.Must(goversion.NewVersion(tt.server)))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	assert.Contains(t, Get().String(), "sqlkit version "+Version)
}
