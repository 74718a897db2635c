package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safereport/safereport-api/config"
)

func TestNew(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "safereport")
	_ = os.Setenv("PORT", "8080")

	conf := config.New()

	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "safereport", conf.DatabaseName)
	assert.Equal(t, "8080", conf.Port)
}

func TestNewDefaults(t *testing.T) {
	_ = os.Unsetenv("CHAT_BACKEND")
	_ = os.Unsetenv("SOS_OFFICER_FANOUT")

	conf := config.New()

	assert.Equal(t, "store", conf.ChatBackend)
	assert.Equal(t, int64(3), conf.SOSOfficerFanout)
}

func TestNewFanoutOverride(t *testing.T) {
	_ = os.Setenv("SOS_OFFICER_FANOUT", "5")
	defer os.Unsetenv("SOS_OFFICER_FANOUT")

	conf := config.New()

	assert.Equal(t, int64(5), conf.SOSOfficerFanout)
}
