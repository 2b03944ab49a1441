// Package main provides the entry point for the phishscan CLI.
//
// phishscan submits URLs to a phishing prediction service, shows the
// classification and keeps a short history of recent scans.
//
// Usage:
//
//	phishscan scan <url>...
//	phishscan scan --list <file>
//	phishscan history
//	phishscan serve
//
// See --help for all available options.
package main

// main is the entry point for phishscan.
func main() {
	Execute()
}
