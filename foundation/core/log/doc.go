// Package log is the structured logger of jackc.
//
// Loggers are cheap to derive: WithName, WithSource and WithFields return
// children that share the root's output, lock and level. Text output goes
// to stderr by default so that parse trees written to stdout stay clean.
//
//	logger := mdwlog.New().WithName("analyzer").WithSource("src/Main.jack")
//	timer := logger.StartTimer("parse")
//	if err := parse(); err != nil {
//		timer.Fail(err)
//	}
//	timer.Stop(mdwlog.Fields{"tokens": 181})
//
// Errors from the foundation error package are logged at a level derived
// from their severity, so a syntax error in user input does not show up
// as an analyzer failure.
package log
