// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Config 应用配置
type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// Addr 返回Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig API配置
type APIConfig struct {
	RateLimit int           `yaml:"rate_limit"`
	Timeout   time.Duration `yaml:"timeout"`
	CORS      CORSConfig    `yaml:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Origins []string `yaml:"origins"`
}

// SchedulerConfig 排班引擎配置
type SchedulerConfig struct {
	DefaultTimeout    time.Duration `yaml:"default_timeout"`
	MaxIterations     int           `yaml:"max_iterations"`
	OptimizationLevel int           `yaml:"optimization_level"` // 1=快速(greedy), 2=平衡(ILS), 3=最优(memetic)

	// EngineThreads 控制 ILS/memetic 并行搜索线程数；<=0 时退化为单线程。
	EngineThreads int `yaml:"engine_threads"`
	// EngineRngSeed 是全局随机种子，每个线程在其基础上偏移得到私有种子。
	EngineRngSeed int64 `yaml:"engine_rng_seed"`
	// EnginePopulationSize 仅用于 memetic 模式下的共享解池容量。
	EnginePopulationSize int `yaml:"engine_population_size"`
	// EngineRestartAfter 是 ILS 连续多少次迭代无提升后触发重启。
	EngineRestartAfter int `yaml:"engine_restart_after"`
	// EngineAcceptWorseRate 是 ILS 接受非改进扰动解作为新当前解的概率。
	EngineAcceptWorseRate float64 `yaml:"engine_accept_worse_rate"`
	// EngineTraceRecordPeriod 控制完整迭代轨迹的采样间隔（仅调试用途）。
	EngineTraceRecordPeriod int `yaml:"engine_trace_record_period"`
	// EngineDebugVerifyDeltas 为 true 时，工作线程在每次下降后用
	// engine.FullEvaluation 交叉核验增量评估的结果，仅用于排查 delta 实现的偏差。
	EngineDebugVerifyDeltas bool `yaml:"engine_debug_verify_deltas"`
}

// DispatcherConfig 派单引擎配置
type DispatcherConfig struct {
	DefaultTimeout time.Duration `yaml:"default_timeout"`
	OptimizeRoute  bool          `yaml:"optimize_route"`
	MaxDistanceKm  float64       `yaml:"max_distance_km"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "paiban"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7012),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "paiban"),
			User:            getEnv("DB_USER", "paiban"),
			Password:        getEnv("DB_PASSWORD", "paiban123"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		API: APIConfig{
			RateLimit: getEnvInt("API_RATE_LIMIT", 100),
			Timeout:   getEnvDuration("API_TIMEOUT", 30*time.Second),
			CORS: CORSConfig{
				Enabled: getEnvBool("API_CORS_ENABLED", true),
				Origins: []string{"*"},
			},
		},
		Scheduler: SchedulerConfig{
			DefaultTimeout:          getEnvDuration("SCHEDULER_TIMEOUT", 30*time.Second),
			MaxIterations:           getEnvInt("SCHEDULER_MAX_ITERATIONS", 1000),
			OptimizationLevel:       getEnvInt("SCHEDULER_OPTIMIZATION_LEVEL", 2),
			EngineThreads:           getEnvInt("SCHEDULER_ENGINE_THREADS", 4),
			EngineRngSeed:           int64(getEnvInt("SCHEDULER_ENGINE_RNG_SEED", 42)),
			EnginePopulationSize:    getEnvInt("SCHEDULER_ENGINE_POPULATION_SIZE", 12),
			EngineRestartAfter:      getEnvInt("SCHEDULER_ENGINE_RESTART_AFTER", 200),
			EngineAcceptWorseRate:   getEnvFloat("SCHEDULER_ENGINE_ACCEPT_WORSE_RATE", 0.02),
			EngineTraceRecordPeriod: getEnvInt("SCHEDULER_ENGINE_TRACE_RECORD_PERIOD", 50),
			EngineDebugVerifyDeltas: getEnvBool("SCHEDULER_ENGINE_DEBUG_VERIFY_DELTAS", false),
		},
		Dispatcher: DispatcherConfig{
			DefaultTimeout: getEnvDuration("DISPATCHER_TIMEOUT", 5*time.Second),
			OptimizeRoute:  getEnvBool("DISPATCHER_OPTIMIZE_ROUTE", true),
			MaxDistanceKm:  getEnvFloat("DISPATCHER_MAX_DISTANCE", 15.0),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置中互相依赖或取值范围有约束的字段，一次性收集所有问题
// 而不是在第一个错误处就返回，这样运维能一次性看到需要修正的所有配置项。
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.App.Port <= 0 {
		result = multierror.Append(result, fmt.Errorf("app.port must be positive, got %d", c.App.Port))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		result = multierror.Append(result, fmt.Errorf("database.max_idle_conns (%d) must not exceed database.max_open_conns (%d)", c.Database.MaxIdleConns, c.Database.MaxOpenConns))
	}
	if c.Scheduler.OptimizationLevel < 1 || c.Scheduler.OptimizationLevel > 3 {
		result = multierror.Append(result, fmt.Errorf("scheduler.optimization_level must be 1, 2 or 3, got %d", c.Scheduler.OptimizationLevel))
	}
	if c.Scheduler.EngineThreads < 0 {
		result = multierror.Append(result, fmt.Errorf("scheduler.engine_threads must not be negative, got %d", c.Scheduler.EngineThreads))
	}
	if c.Scheduler.EnginePopulationSize < 0 {
		result = multierror.Append(result, fmt.Errorf("scheduler.engine_population_size must not be negative, got %d", c.Scheduler.EnginePopulationSize))
	}
	if c.Scheduler.EngineAcceptWorseRate < 0 || c.Scheduler.EngineAcceptWorseRate > 1 {
		result = multierror.Append(result, fmt.Errorf("scheduler.engine_accept_worse_rate must be within [0, 1], got %f", c.Scheduler.EngineAcceptWorseRate))
	}
	if c.Dispatcher.MaxDistanceKm < 0 {
		result = multierror.Append(result, fmt.Errorf("dispatcher.max_distance_km must not be negative, got %f", c.Dispatcher.MaxDistanceKm))
	}

	return result.ErrorOrNil()
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
