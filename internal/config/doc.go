// Package config provides the configuration of CopyChecker.
//
// Settings come from four layers, each overriding the previous one:
// built-in defaults (NewConfig), the .copychecker YAML file, COPYCHECKER_*
// environment variables and command line flags. The YAML file can also
// carry per-site settings keyed by host name.
package config
