// Package config provides configuration structures and utilities for phishscan.
// It defines where the prediction endpoint lives, how it is reached, how
// result pages are read, where the scan history is stored and how reports
// are written.
package config
