// Package config loads and validates the activities API configuration.
//
// Values come from, in increasing precedence: built-in defaults, a .env file
// in the working directory, the file named by CONFIG_FILE (any format viper
// reads, keys written in lower snake case such as server_port), and process
// environment variables (SERVER_PORT, LOG_LEVEL, ...).
//
// Call Validate after Load; it reports every problem at once via errors.Join.
package config
