package luckbook

import "time"

const (
	// DefaultRetryBudget is the number of full candidate draws attempted for a
	// variant with special rules before falling back to an unvalidated draw
	DefaultRetryBudget = 1000

	// MaxRetryBudget caps the configurable retry budget
	MaxRetryBudget = 100_000

	// MaxGamesPerBatch is the maximum number of sets a single multi-set request produces
	MaxGamesPerBatch = 10

	// KeyDelimiter joins the members of a generated set into its canonical key
	KeyDelimiter = ","

	// HighNumberThreshold: members strictly above it count as "high"
	HighNumberThreshold = 31

	// MinHighNumbers is the minimum count of high members for 6 or 7 element sets
	MinHighNumbers = 2

	// MinQuadrants is the minimum number of distinct quadrants a valid set touches
	MinQuadrants = 3

	// MaxRunLength is the longest allowed run of consecutive integers
	MaxRunLength = 2

	// RankingSize is the length of the top and bottom frequency rankings
	RankingSize = 10
)

const (
	// KeyPrefix is the prefix for every persisted collection key
	KeyPrefix = "luckbook:"

	// DefaultGamesKey stores the saved games collection
	DefaultGamesKey = KeyPrefix + "games"

	// DefaultAppointmentsKey stores the appointments collection
	DefaultAppointmentsKey = KeyPrefix + "appointments"

	// DefaultSettingsKey stores the user settings
	DefaultSettingsKey = KeyPrefix + "settings"

	// DefaultRetryAttempts is the default number of store retry attempts
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default base interval between store retries
	DefaultRetryInterval = 100 * time.Millisecond

	// MaxRetryAttempts is the maximum number of store retry attempts allowed
	MaxRetryAttempts = 10

	// MaxRetryDelay caps the exponential backoff between store retries
	MaxRetryDelay = 5 * time.Second

	// MaxSerializationSize is the maximum allowed size for one persisted collection (10MB)
	MaxSerializationSize = 10 * 1024 * 1024

	// DefaultStoreTTL keeps collections forever
	DefaultStoreTTL time.Duration = 0

	// StorageBackendMemory keeps collections in process memory
	StorageBackendMemory = "memory"

	// StorageBackendRedis keeps collections in Redis
	StorageBackendRedis = "redis"
)

const (
	// LockKeyPrefix is the prefix for distributed lock keys
	LockKeyPrefix = KeyPrefix + "lock:"

	// DefaultLockExpiration bounds how long a crashed holder blocks others
	DefaultLockExpiration = 30 * time.Second

	// ReminderSweepLock serializes reminder sweeps across instances
	ReminderSweepLock = "reminder_sweep"
)

const (
	// DefaultReminderLeadTime is how long before an appointment its reminder fires
	DefaultReminderLeadTime = time.Hour

	// DefaultReminderSchedule is the cron spec of the reminder sweep
	DefaultReminderSchedule = "@every 1m"

	// MaxReminderLeadTime caps the configurable lead time
	MaxReminderLeadTime = 7 * 24 * time.Hour
)

const (
	// DefaultLogLevel is the default logrus level name
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log output format (text or json)
	DefaultLogFormat = "text"

	// DefaultFastRandomGeneratorCacheSize is the default float cache of SecureRandomGenerator
	DefaultFastRandomGeneratorCacheSize = 1024
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "luckbook-store"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 2
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)
