package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "revhud.cfg.json"), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"vehicle": { "redline": 9000 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 9000.0, viper.GetFloat64("vehicle.redline"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./revhudlogs", viper.GetString("logsDir"))
	assert.Equal(t, true, viper.GetBool("overlay.enabled"))
	assert.Equal(t, 60, viper.GetInt("overlay.tickRate"))
	assert.Equal(t, 15, viper.GetInt("overlay.statsRefreshTicks"))
	assert.Equal(t, 7500.0, viper.GetFloat64("vehicle.redline"))
	assert.Equal(t, "ws://localhost:8078/carstate", viper.GetString("feed.url"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "ManualDriveLiveStats", viper.GetString("storage.statsKey"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetVehicleConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	vc := GetVehicleConfig()
	assert.Equal(t, 7500.0, vc.Redline)
	assert.Equal(t, 750.0, vc.MinTargetDisplay)
	assert.Equal(t, 4.10, vc.FinalDrive)
	assert.Equal(t, 1.977, vc.TireCircumference)
	require.Len(t, vc.GearRatios, 6)
	assert.Equal(t, 3.626, vc.GearRatios[1])
	assert.Equal(t, 0.767, vc.GearRatios[6])
}

func TestGetVehicleConfig_OverrideRatios(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"vehicle": {
			"gearRatios": { "1": 3.0, "2": 2.0, "3": 1.5 },
			"finalDrive": 3.9
		}
	}`)
	require.NoError(t, Load(dir))

	vc := GetVehicleConfig()
	assert.Equal(t, 3.9, vc.FinalDrive)
	require.Len(t, vc.GearRatios, 3)
	assert.Equal(t, 1.5, vc.GearRatios[3])
}

func TestOverlayConfig_FlashTicks(t *testing.T) {
	oc := OverlayConfig{TickRate: 60, FlashSeconds: 2.5}
	assert.Equal(t, 150, oc.FlashTicks())

	// Real-time duration is preserved at other tick rates.
	oc = OverlayConfig{TickRate: 20, FlashSeconds: 2.5}
	assert.Equal(t, 50, oc.FlashTicks())
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"storage": { "type": "gorm", "statsKey": "OtherKey" }
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "gorm", sc.Type)
	assert.Equal(t, "OtherKey", sc.StatsKey)
}
