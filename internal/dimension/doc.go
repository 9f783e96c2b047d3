// Package dimension models the width×height of an image or display.
//
// Dimensions are parsed from the "<width>x<height>" text produced by image
// introspection tools and checked against a configured Window that bounds
// both the shorter and the longer side.
package dimension
