// Package preflight provides filesystem readiness checks for the paths
// wallswitch reads from and writes to.
//
// The doctor command renders the results. Image directories that do not
// exist are reported but optional, since the default list covers several
// conventional locations of which usually only a few exist.
package preflight
