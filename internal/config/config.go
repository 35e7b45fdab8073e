package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/viper"
)

// VehicleConfig holds the per-vehicle calibration: the gear table used for
// rev-match physics and the RPM thresholds used for meter coloring.
type VehicleConfig struct {
	Redline          float64
	EconomyMax       float64
	PowerMin         float64
	DangerMin        float64
	MinTargetDisplay float64

	GearRatios        map[int]float64
	FinalDrive        float64
	TireCircumference float64
}

// OverlayConfig holds tick-loop settings.
type OverlayConfig struct {
	Enabled            bool
	TickRate           int     // ticks per second
	FlashSeconds       float64 // shift-grade flash duration in real time
	StatsRefreshTicks  int
	FilterTimeConstant float64
}

// FlashTicks converts the real-time flash duration to a tick count at the
// configured tick rate.
func (c OverlayConfig) FlashTicks() int {
	return int(math.Round(c.FlashSeconds * float64(c.TickRate)))
}

// StorageConfig selects the session-stats store backend.
type StorageConfig struct {
	Type     string // "memory" | "gorm"
	StatsKey string
}

// FeedConfig holds vehicle-state feed settings.
type FeedConfig struct {
	URL    string
	Secret string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./revhudlogs")

	viper.SetDefault("overlay.enabled", true)
	viper.SetDefault("overlay.tickRate", 60)
	viper.SetDefault("overlay.flashSeconds", 2.5)
	viper.SetDefault("overlay.statsRefreshTicks", 15)
	viper.SetDefault("overlay.filterTimeConstant", 0.1)

	// 2024 BRZ calibration
	viper.SetDefault("vehicle.redline", 7500)
	viper.SetDefault("vehicle.economyMax", 2500)
	viper.SetDefault("vehicle.powerMin", 4000)
	viper.SetDefault("vehicle.dangerMin", 6500)
	viper.SetDefault("vehicle.minTargetDisplay", 750)
	viper.SetDefault("vehicle.finalDrive", 4.10)
	viper.SetDefault("vehicle.tireCircumference", 1.977)
	viper.SetDefault("vehicle.gearRatios", map[string]float64{
		"1": 3.626, "2": 2.188, "3": 1.541, "4": 1.213, "5": 1.000, "6": 0.767,
	})

	viper.SetDefault("feed.url", "ws://localhost:8078/carstate")
	viper.SetDefault("feed.secret", "")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.statsKey", "ManualDriveLiveStats")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "revhud")
	viper.SetDefault("db.sqliteFile", "./revhud_stats.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "revhud-metrics")
	viper.SetDefault("influx.bucket", "manual_stats")
	viper.SetDefault("influx.flushSeconds", 1)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("revhud.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetVehicleConfig returns the vehicle calibration.
func GetVehicleConfig() VehicleConfig {
	return VehicleConfig{
		Redline:           viper.GetFloat64("vehicle.redline"),
		EconomyMax:        viper.GetFloat64("vehicle.economyMax"),
		PowerMin:          viper.GetFloat64("vehicle.powerMin"),
		DangerMin:         viper.GetFloat64("vehicle.dangerMin"),
		MinTargetDisplay:  viper.GetFloat64("vehicle.minTargetDisplay"),
		GearRatios:        parseGearRatios(viper.GetStringMap("vehicle.gearRatios")),
		FinalDrive:        viper.GetFloat64("vehicle.finalDrive"),
		TireCircumference: viper.GetFloat64("vehicle.tireCircumference"),
	}
}

// GetOverlayConfig returns the tick-loop settings.
func GetOverlayConfig() OverlayConfig {
	return OverlayConfig{
		Enabled:            viper.GetBool("overlay.enabled"),
		TickRate:           viper.GetInt("overlay.tickRate"),
		FlashSeconds:       viper.GetFloat64("overlay.flashSeconds"),
		StatsRefreshTicks:  viper.GetInt("overlay.statsRefreshTicks"),
		FilterTimeConstant: viper.GetFloat64("overlay.filterTimeConstant"),
	}
}

// GetStorageConfig returns the stats-store settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:     viper.GetString("storage.type"),
		StatsKey: viper.GetString("storage.statsKey"),
	}
}

// GetFeedConfig returns the vehicle-state feed settings.
func GetFeedConfig() FeedConfig {
	return FeedConfig{
		URL:    viper.GetString("feed.url"),
		Secret: viper.GetString("feed.secret"),
	}
}

// parseGearRatios converts the viper map (string keys, numeric or string
// values depending on config source) into a gear table mapping.
func parseGearRatios(raw map[string]any) map[int]float64 {
	ratios := make(map[int]float64, len(raw))
	for k, v := range raw {
		gear, err := strconv.Atoi(k)
		if err != nil || gear <= 0 {
			continue
		}
		switch val := v.(type) {
		case float64:
			ratios[gear] = val
		case int:
			ratios[gear] = float64(val)
		case string:
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				ratios[gear] = f
			}
		}
	}
	return ratios
}
