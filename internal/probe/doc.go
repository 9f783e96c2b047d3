// Package probe asks ImageMagick for the pixel dimensions of an image.
//
// Decoding is left entirely to the external tool; callers receive the raw
// "WIDTHxHEIGHT" text and parse it with the dimension package.
package probe
