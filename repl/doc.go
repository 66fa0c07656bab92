// Package repl implements the interactive mode of cmdex.
//
// It provides the line-based session loop in which users describe commands
// in natural language, ask for explanations, and switch personas, with
// model responses streamed to the terminal as they are produced.
//
// # Usage
//
// Create an engine with its collaborators and run it:
//
//	engine := repl.New(registry, builder, client, model, version, os.Stdin, os.Stdout)
//	err := engine.Run(ctx)
//
// # Session commands
//
//   - /generate <description> — generate a command (optional -p <persona>)
//   - /explain <command>      — explain a command (optional -p <persona>)
//   - /persona <name>         — switch the active persona
//   - /exit, /quit            — leave the session
//
// Any other line is sent to the model as conversational input.
//
// # Failure handling
//
// Failures inside one turn (an unknown persona, a dead backend, a broken
// stream) are reported and the loop continues; whatever output arrived
// before a stream broke stays on screen. Only /exit, end of input, or an
// interrupt received while waiting for input end the session. An interrupt
// during a streaming response cancels that response only.
package repl
