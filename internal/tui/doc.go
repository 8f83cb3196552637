// Package tui implements the full-screen terminal interface for neckscan.
//
// AppModel is a Bubble Tea model over a single session.Machine. It never
// holds analysis state of its own: every screen is drawn from the latest
// snapshot, and key presses become SubmitImage or Reset calls on the machine.
// Snapshots arrive through waitForSnapshot, one tea.Cmd at a time, and a
// snapshot with an older revision than the one on screen is ignored.
//
// # Screens
//
//   - Idle: a file picker limited to image extensions
//   - Loading: a spinner and the rotating loading message; esc cancels
//   - Result: the report card in a scrollable viewport; s copies the share
//     text, p copies the product link, n starts over
//   - Error: the user-facing message; r retries the same photo
//
// Every screen is wrapped by RenderApplicationContainer, which draws the
// header and the key help footer.
package tui
