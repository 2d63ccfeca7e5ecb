// Package releasesync gathers live release data for a single catalog record.
//
// A Syncer parses the record's source repository URL and, when it names a
// repository on the configured host, runs the repository, latest-release and
// readme lookups concurrently. Each lookup has its own timeout and its own
// slot in the result, so one failure never hides the others. Records without
// a usable repository URL produce an empty result and no outbound calls.
package releasesync
