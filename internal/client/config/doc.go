// Package config loads the vidgallery client settings.
//
// Sources are applied in order, later ones winning:
//
//  1. built-in defaults (LoadDefaults);
//  2. an optional JSON file named by -c or -config;
//  3. command-line flags.
//
// JSON durations accept "10s"-style strings or integer nanoseconds.
package config
