// Package viz draws designs and response figures in the terminal.
//
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell
//   - [Wireframe], [Camera], [Render3D]: projected line drawings of platforms
//   - [RenderAxes], [WriteFigure]: ASCII charts of a plot.Figure
//   - [Viewer]: Bubble Tea pager over the six response channels
//   - [Palette]: per-channel colors and the title gradient
//
// # Key Bindings
//
//	←/→ h/l  Previous/next channel
//	1-6      Jump to a channel
//	P        Cycle color palettes
//	R        Toggle the platform wireframe
//	?        Show help
//	Q        Quit
package viz
