// Package config provides centralized configuration management for HaulPulse.
// It handles loading configuration from multiple sources, validation, and
// exposes typed sections for the server, logging, security and the haulage
// dataset.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HAUL_<SECTION>_<FIELD>:
//
//	HAUL_SERVER_PORT=8080
//	HAUL_LOGGING_LEVEL=debug
//	HAUL_DATASET_FILE=/srv/haul/timeseries.csv
//	HAUL_DATASET_LOADER_LABELS=PH06,PH48,PH55,PH58
//	HAUL_DATASET_BASELINE_CAPACITY=120
//
// HAUL_CONFIG_FILE points at an explicit YAML file.
//
// # Path Management
//
// Directories are resolved relative to the executable location via GetPaths.
// The dataset path is resolved against the working directory first and the
// executable directory second.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests can start from Default(), which needs no environment or files.
package config
