// Package snapshot retrieves discovered result pages and condenses them
// into small content records suitable for offline triage.
package snapshot
