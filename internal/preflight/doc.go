// Package preflight provides readiness checks for the API, filesystem paths,
// and external binaries a migration depends on.
//
// These checks run in two contexts:
//   - The CLI "putmig check" command runs the full set and renders a table.
//   - The run command executes the filesystem checks before starting, so a
//     misconfigured destination fails in seconds instead of after a scan.
package preflight
