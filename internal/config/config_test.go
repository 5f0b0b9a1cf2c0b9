package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/ledger")
		t.Setenv("JWT_ACCESS_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "development", cfg.Environment)
		require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
		require.Equal(t, 7091, cfg.HTTP.Port)
		require.Equal(t, 0.25, cfg.Ledger.DepositCapRatio)
		require.Equal(t, 1, cfg.Ledger.BestClientsLimit)
	})

	t.Run("missing dsn", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		t.Setenv("JWT_ACCESS_SECRET", "secret")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("cap ratio out of range", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/ledger")
		t.Setenv("JWT_ACCESS_SECRET", "secret")
		t.Setenv("LEDGER_DEPOSIT_CAP_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/ledger")
		t.Setenv("JWT_ACCESS_SECRET", "secret")
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("LEDGER_DEPOSIT_CAP_RATIO", "0.5")
		t.Setenv("LEDGER_BEST_CLIENTS_LIMIT", "3")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 9000, cfg.HTTP.Port)
		require.Equal(t, 0.5, cfg.Ledger.DepositCapRatio)
		require.Equal(t, 3, cfg.Ledger.BestClientsLimit)
	})
}
