// Package gaze reads raw eye-tracking recordings into typed time series.
//
// A recording is a tab-separated text export with a header row. The time
// column is required; any of the left, right and average coordinate pairs may
// be present. Samples that fall off screen or cannot be parsed are replaced by
// the configured data-loss sentinel, so downstream code sees one consistent
// representation of missing data.
package gaze
