// Package rankcli computes leaderboards from a config file and prints them,
// optionally checking a running server for the same result.
package rankcli

import "time"

// Options are the command line flags of the rank tool.
type Options struct {
	Config   string        `short:"f" long:"config" description:"YAML config file (defaults to $WODBOARD_CONFIG)" value-name:"FILE"`
	Category []string      `short:"c" long:"category" description:"Category to print; repeat for several (default: all)"`
	Limit    int           `short:"n" long:"limit" description:"Print only the first N standings" default:"0"`
	JSON     bool          `long:"json" description:"Print JSON instead of a table"`
	Events   bool          `short:"e" long:"events" description:"Also print each event's ranked table"`
	Verify   string        `long:"verify" description:"Base URL of a running server whose boards must match" value-name:"URL"`
	Timeout  time.Duration `long:"timeout" description:"Overall timeout" default:"30s"`
	Verbose  bool          `short:"v" long:"verbose" description:"Enable debug logging"`
}
