// Package render applies a partitioned chunk of images as the desktop
// wallpaper.
//
// GNOME gets a single composite built by ImageMagick and registered through
// gsettings. Xfce receives one image per monitor backdrop through
// xfconf-query. Every other desktop falls back to feh. All commands run
// through a deps.Runner so argument construction can be tested without the
// tools installed.
package render
