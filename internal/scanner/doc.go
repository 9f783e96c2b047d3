// Package scanner walks configured directories and collects image files whose
// extension is on the allow list.
//
// Traversal is deterministic: entries are visited in lexical name order and
// roots are processed in the order given. Entries that cannot be read are
// skipped rather than aborting the walk.
package scanner
