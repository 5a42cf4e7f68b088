// Package config handles loading and validating Movie API configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (database URI credentials, JWT secret) should be set via
//     environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret has no default and must be supplied before startup
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
