package connectors

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionString(t *testing.T) {
	cfg := mssqlConfig{
		Server:   "sql01.example.com",
		Database: "StoreDB",
		Username: "sa",
		Password: "p@ss/word",
	}

	u, err := url.Parse(cfg.connectionString())
	require.NoError(t, err)

	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "sql01.example.com:1433", u.Host)
	assert.Equal(t, "sa", u.User.Username())

	password, set := u.User.Password()
	assert.True(t, set)
	assert.Equal(t, "p@ss/word", password)

	query := u.Query()
	assert.Equal(t, "StoreDB", query.Get("database"))
	assert.Equal(t, "10", query.Get("dial timeout"))
	assert.Equal(t, "disable", query.Get("encrypt"))
}
