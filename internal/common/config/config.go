package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string

	DBPath      string
	StorageRoot string
	EditorFile  string

	ViewportWidth  float64
	ViewportHeight float64
	HistoryLimit   int
	MaxUploadMB    int

	Editor EditorDefaults
}

// EditorDefaults is the optional YAML overlay (EDITOR_CONFIG).
type EditorDefaults struct {
	Palette    Palette `yaml:"palette"`
	ZoneColor  string  `yaml:"zone_color"`
	SeatRadius float64 `yaml:"seat_radius"`
	Grid       Grid    `yaml:"grid"`

	// PolygonSnap is off unless set.
	PolygonSnap PolygonSnap `yaml:"polygon_snap"`
}

type PolygonSnap struct {
	MergeTolerance float64 `yaml:"merge_tolerance"`
	AxisTolerance  float64 `yaml:"axis_tolerance"`
}

type Palette struct {
	Regular    string `yaml:"regular"`
	VIP        string `yaml:"vip"`
	Accessible string `yaml:"accessible"`
	Blocked    string `yaml:"blocked"`
}

type Grid struct {
	Rows        int     `yaml:"rows"`
	Columns     int     `yaml:"columns"`
	RowSpacing  float64 `yaml:"row_spacing"`
	SeatSpacing float64 `yaml:"seat_spacing"`
	StartRow    string  `yaml:"start_row"`
}

// Load загружает конфигурацию из переменных окружения (.env подхватывает
// вызывающий) и, если задан EDITOR_CONFIG, накладывает YAML поверх.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		DBPath:      getEnv("EDITOR_DB_PATH", "data/db/editor.db"),
		StorageRoot: getEnv("EDITOR_STORAGE_ROOT", "data/files"),
		EditorFile:  getEnv("EDITOR_CONFIG", ""),

		ViewportWidth:  getEnvAsFloat("VIEWPORT_WIDTH", 1280),
		ViewportHeight: getEnvAsFloat("VIEWPORT_HEIGHT", 800),
		HistoryLimit:   getEnvAsInt("HISTORY_LIMIT", 50),
		MaxUploadMB:    getEnvAsInt("MAX_UPLOAD_MB", 20),
	}

	if cfg.EditorFile != "" {
		defaults, err := LoadEditorFile(cfg.EditorFile)
		if err != nil {
			return nil, fmt.Errorf("editor config %s: %w", cfg.EditorFile, err)
		}
		cfg.Editor = *defaults
	}
	return cfg, nil
}

// LoadEditorFile reads a YAML editor defaults file.
func LoadEditorFile(path string) (*EditorDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defaults := &EditorDefaults{}
	if err := yaml.Unmarshal(data, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultVal
}
