// Package plot turns six response channels into a figure of magnitude, real
// and imaginary traces against frequency.
//
// A [Figure] is a plain data model: [Figure.Draw] fills one [Axes] per channel
// and back ends render it. [SaveImage] writes PNG or SVG through gonum/plot;
// the terminal back ends live in package viz.
package plot
