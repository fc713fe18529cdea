package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/kyori/data/models/vggish.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 128
	}
	if cfg.Embedding.SampleRate == 0 {
		cfg.Embedding.SampleRate = 16000
	}
	if cfg.Embedding.WindowSeconds == 0 {
		cfg.Embedding.WindowSeconds = 0.96
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 64
	}
	if cfg.Embedding.Workers == 0 {
		cfg.Embedding.Workers = 1
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "disk"
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "/usr/local/var/kyori/data/cache"
	}
	if cfg.Background.Directory == "" {
		cfg.Background.Directory = "/usr/local/var/kyori/data/background"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".wav"}
	}
}
