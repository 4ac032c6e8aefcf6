// Package config loads screen-pilot configuration.
//
// Configuration comes from, in increasing priority:
//
//  1. Built-in defaults
//  2. A YAML file (optional)
//  3. A .env file in the working directory (optional)
//  4. SCREENPILOT_* environment variables
//
// Example config.yaml:
//
//	engine:
//	  poll_interval: 1s
//	  retries: "3"
//	window:
//	  max_wait: 30s
//	  interval: 1s
//	vision:
//	  confidence: 0.8
//	  scale: 0.5
//	  pixel_ratio: 2
//	diagnostics:
//	  dir: "."
//	  annotate: true
//	logging:
//	  level: info
//	  format: text
//	  output: stderr
//	  context: true
package config
