// Package viz is the live terminal view of an orbit, built on Bubble Tea.
//
// [Model] sweeps the orbital phase and shows the relative orbit on a
// Braille [Canvas], the RV curve with the current epoch, and the derived
// quantities of the elements.
//
// # Key Bindings
//
//	Space - Pause/Resume the sweep
//	R     - Back to pericenter
//	+/-   - Faster/slower sweep
//	[ ]   - Step one frame back/forward while paused
//	T     - Cycle color themes
//	Q     - Quit
package viz
