package server

import (
	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/jack/parser"
	"google.golang.org/protobuf/types/known/structpb"
)

// AnalyzeRequest is the typed form of an Analyze or Tokenize request
type AnalyzeRequest struct {
	Source string
	// Name identifies the source in logs, usually its file name.
	Name     string
	Style    string
	Annotate bool
}

// AnalyzeResponse is the typed form of a response. For Tokenize, XML holds
// the token stream document and Lines is zero.
type AnalyzeResponse struct {
	XML    string
	Class  string
	Tokens int
	Lines  int
}

func (r AnalyzeRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"source":   r.Source,
		"name":     r.Name,
		"style":    r.Style,
		"annotate": r.Annotate,
	})
}

func requestFromStruct(s *structpb.Struct) (AnalyzeRequest, error) {
	fields := s.GetFields()
	req := AnalyzeRequest{
		Source:   fields["source"].GetStringValue(),
		Name:     fields["name"].GetStringValue(),
		Style:    fields["style"].GetStringValue(),
		Annotate: fields["annotate"].GetBoolValue(),
	}
	if req.Source == "" {
		return req, mdwerror.New("source is required").WithCode(mdwerror.CodeInvalidInput)
	}
	return req, nil
}

// style resolves the requested tree style, falling back to def.
func (r AnalyzeRequest) style(def parser.Style) (parser.Style, error) {
	if r.Style == "" {
		return def, nil
	}
	st, err := parser.ParseStyle(r.Style)
	if err != nil {
		return def, mdwerror.Wrap(err, "invalid style").WithCode(mdwerror.CodeInvalidInput)
	}
	return st, nil
}

func (r AnalyzeResponse) toStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"xml":    structpb.NewStringValue(r.XML),
		"class":  structpb.NewStringValue(r.Class),
		"tokens": structpb.NewNumberValue(float64(r.Tokens)),
		"lines":  structpb.NewNumberValue(float64(r.Lines)),
	}}
}

func responseFromStruct(s *structpb.Struct) AnalyzeResponse {
	fields := s.GetFields()
	return AnalyzeResponse{
		XML:    fields["xml"].GetStringValue(),
		Class:  fields["class"].GetStringValue(),
		Tokens: int(fields["tokens"].GetNumberValue()),
		Lines:  int(fields["lines"].GetNumberValue()),
	}
}
