// Package error provides the structured error type of jackc.
//
// An Error carries a Code, a Severity derived from the code, details such
// as the source position of a lexical error, and an optional cause:
//
//	err := mdwerror.New("integer constant 40000 exceeds 32767").
//		WithCode(mdwerror.CodeValueOutOfRange).
//		At(3, 17)
//
//	if mdwerror.HasCode(err, mdwerror.CodeValueOutOfRange) {
//		...
//	}
//
// Wrap keeps the classification of the wrapped error, so a lexical error
// reported for a file still has its lexical code.
package error
