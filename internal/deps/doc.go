// Package deps checks that the external tools wallswitch shells out to are
// installed and provides the Runner every invocation goes through.
package deps
