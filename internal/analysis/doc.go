// Package analysis talks to the remote image-analysis service.
//
// A GeminiClient sends one photo plus a fixed instruction prompt and a strict
// JSON response schema to Gemini, and parses the reply into a Result. Every
// call makes exactly one request; retries are left to the user.
//
// # Faults
//
// All failures are returned as *ServiceError:
//   - ErrKindTransport: the call failed; the user sees the underlying message
//   - ErrKindMalformed: the reply was not the expected JSON; the user sees
//     MalformedMessage regardless of the parse error
//   - ErrKindUnexpected: anything else; the user sees GenericMessage
//
// UserMessage(err) turns any error into the text for the error screen.
//
// # Images
//
// LoadImage reads a file and ParseDataURI decodes a browser data URI. Both
// sniff the MIME type and never reject a payload; judging the photo is the
// service's job.
package analysis
