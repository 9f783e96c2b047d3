// Package dedup hashes image contents and collapses byte-identical files to a
// single pool entry.
//
// Content identity is a 64-bit xxHash digest, which is not collision
// resistant. Two files with equal digests are treated as the same image.
package dedup
