package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendMemory = "memory"
	StorageBackendSQLite = "sqlite"
	StorageBackendRedis  = "redis"

	EnvAppEnv              = "STOREFRONT_APP_ENV"
	EnvPort                = "STOREFRONT_APP_PORT"
	EnvCatalogBaseURL      = "STOREFRONT_CATALOG_BASE_URL"
	EnvEnquiryCollectorURL = "STOREFRONT_ENQUIRY_COLLECTOR_URL"
	EnvStorageBackend      = "STOREFRONT_STORAGE_BACKEND"
	EnvRedisURL            = "STOREFRONT_REDIS_URL"
)
