// Package config provides configuration management for the data integrity monitor.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Log: Logging level and format
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: MySQL or SQLite connection details
//   - Dataset: Backend for collections (file, s3, sql) and read cache
//   - Runner: Remote actor/task API endpoint and credentials
//   - Integrity: Default identity, ignored and warn fields, reference capacity
//
// Every key maps to an environment variable made of the section and the key,
// e.g. INTEGRITY_MAX_ENTRIES or DATASET_DRIVER. List values are comma separated.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
