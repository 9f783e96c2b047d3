// Package monitor describes the output surfaces a wallpaper is composed for.
//
// A Plan pairs a monitor resolution with the number of pictures composited on
// it and the orientation used to arrange them. The sum of Pictures across all
// plans is the number of images consumed per wallpaper update.
package monitor
