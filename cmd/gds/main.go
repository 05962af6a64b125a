// Package main provides the entry point for the gds CLI.
//
// gds discovers exposed files and misconfigurations via search-engine
// dork queries, records findings incrementally, and summarizes past
// runs offline.
//
// Usage:
//
//	gds scan -c backup_files -t example.com
//	gds report -i gds_output/results.jsonl
//
// See --help for all available options.
package main

// main is the entry point for gds.
func main() {
	Execute()
}
