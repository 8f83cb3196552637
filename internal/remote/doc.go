// Package remote lets a neckscan client use another neckscan server for
// analysis.
//
// Client implements analysis.Analyzer by posting the photo to the server's
// /api/analyze endpoint, so a local session (TUI or analyze command) can run
// without its own Gemini API key:
//
//	instances, _ := discovery.NewScanner().Scan(ctx)
//	client := remote.NewClientForInstance(instances[0])
//	machine := session.New(client)
//
// Health checks retry with exponential backoff; analyses are sent once.
package remote
