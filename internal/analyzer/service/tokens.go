package service

import (
	"io"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/jack/lexer"
	"github.com/msto63/jackc/internal/jack/xmltree"
)

// WriteTokens writes the token stream of src as a flat <tokens> document,
// one terminal per line without indentation. It returns the number of
// tokens written. Tokens read before a lexical error are kept.
func WriteTokens(src io.Reader, dst io.Writer) (int, error) {
	lex := lexer.New(src)
	w := xmltree.NewWriterIndent(dst, "")

	w.Open("tokens")
	n := 0
	for {
		tok, err := lex.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Flush()
			return n, err
		}
		w.Leaf(tok.TagName(), tok.Text)
		if w.Err() != nil {
			break
		}
		n++
	}
	w.Close("tokens")

	if err := w.Finish(); err != nil {
		wrapped := mdwerror.Wrap(err, "write token stream")
		if wrapped.Code() == mdwerror.CodeUnknown {
			wrapped = wrapped.WithCode(mdwerror.CodeIOError)
		}
		return n, wrapped
	}
	return n, nil
}
