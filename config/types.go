package config

// RegistryConfig contains NaPTAN stop registry configuration
type RegistryConfig struct {
	URL        string `yaml:"url" validate:"omitempty,url"`
	CacheDir   string `yaml:"cacheDir"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
	Attempts   int    `yaml:"attempts" validate:"gte=0"`
}

// HolidaysConfig contains bank-holiday dataset configuration
type HolidaysConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

// ConverterConfig contains converter-specific configuration
type ConverterConfig struct {
	BoardingTimeSeconds int `yaml:"boardingTimeSeconds" validate:"gte=0"`
}

// BatchConfig contains worker pool configuration
type BatchConfig struct {
	Workers         int `yaml:"workers" validate:"gte=0"`
	FileSizeLimitMB int `yaml:"fileSizeLimitMB" validate:"gte=0"`
}

// OutputConfig contains feed output configuration
type OutputConfig struct {
	Path         string `yaml:"path"`
	DatabasePath string `yaml:"databasePath"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Registry  RegistryConfig  `yaml:"registry"`
	Holidays  HolidaysConfig  `yaml:"holidays"`
	Converter ConverterConfig `yaml:"converter"`
	Batch     BatchConfig     `yaml:"batch"`
	Output    OutputConfig    `yaml:"output"`
}
