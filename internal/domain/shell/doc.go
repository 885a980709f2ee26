// Package shell translates desktop gestures into window manager operations
// and builds the render model of the desktop.
//
// The Surface owns the rules that sit above the manager: resize clamping,
// taskbar click behavior, maximized frames and the taskbar/desktop/start
// menu listings. Clicking the taskbar entry of the already active window
// restores it to the front; it never minimizes.
package shell
