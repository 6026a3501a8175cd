// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report converts the errors of the parse, resolve and check
// passes into diagnostics, and writes them in a choice of formats.
//
// The json, textproto and wire formats encode a list of diagnostics
// as a google.protobuf.ListValue whose elements are Structs with the
// fields of Diagnostic; empty fields are omitted.
package report // import "github.com/replguard/fncheck/report"

import (
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/replguard/fncheck/check"
	"github.com/replguard/fncheck/resolve"
	"github.com/replguard/fncheck/syntax"
)

// Kinds of diagnostics that do not come from the check pass.
const (
	SyntaxError  = "SyntaxError"
	ResolveError = "ResolveError"
	OtherError   = "Error"
)

// A Diagnostic describes one rejected construct.
type Diagnostic struct {
	File    string
	Line    int
	Col     int    // zero if unknown
	Kind    string // a check.Kind name, SyntaxError, ResolveError or Error
	Name    string // offending function name, for check errors
	Message string
	Hint    string
}

func (d Diagnostic) String() string {
	var s string
	switch {
	case d.File != "" && d.Line > 0 && d.Col > 0:
		s = fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Col, d.Message)
	case d.File != "" && d.Line > 0:
		s = fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	case d.File != "":
		s = fmt.Sprintf("%s: %s", d.File, d.Message)
	case d.Line > 0:
		s = fmt.Sprintf("line %d: %s", d.Line, d.Message)
	default:
		s = d.Message
	}
	if d.Hint != "" {
		s += " (" + d.Hint + ")"
	}
	return s
}

// FromError returns the diagnostics for err, an error returned while
// processing the named file. A resolve.ErrorList yields one
// diagnostic per element.
func FromError(file string, err error) []Diagnostic {
	var (
		checkErr  *check.Error
		list      resolve.ErrorList
		syntaxErr syntax.Error
	)
	switch {
	case err == nil:
		return nil

	case errors.As(err, &checkErr):
		d := Diagnostic{
			File:    checkErr.File,
			Line:    checkErr.Line,
			Kind:    checkErr.Kind.String(),
			Name:    checkErr.Name,
			Message: checkErr.Msg,
			Hint:    checkErr.Hint,
		}
		if d.File == "" {
			d.File = file
		}
		return []Diagnostic{d}

	case errors.As(err, &list):
		diags := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			diags = append(diags, fromPos(file, e.Pos, ResolveError, e.Msg))
		}
		return diags

	case errors.As(err, &syntaxErr):
		return []Diagnostic{fromPos(file, syntaxErr.Pos, SyntaxError, syntaxErr.Msg)}
	}
	return []Diagnostic{{File: file, Kind: OtherError, Message: err.Error()}}
}

func fromPos(file string, pos syntax.Position, kind, msg string) Diagnostic {
	d := Diagnostic{File: pos.Filename(), Kind: kind, Message: msg}
	if d.File == "" {
		d.File = file
	}
	if pos.IsValid() {
		d.Line, d.Col = int(pos.Line), int(pos.Col)
	}
	return d
}

// Formats lists the names accepted by Write.
var Formats = []string{"text", "json", "textproto", "wire"}

// Write writes diags to w in the named format.
func Write(w io.Writer, format string, diags []Diagnostic) error {
	if format == "text" {
		for _, d := range diags {
			if _, err := fmt.Fprintln(w, d); err != nil {
				return err
			}
		}
		return nil
	}

	var marshal func(proto.Message) ([]byte, error)
	switch format {
	case "json":
		marshal = protojson.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal
	case "textproto":
		marshal = prototext.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal
	case "wire":
		marshal = proto.Marshal
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := marshal(ToProto(diags))
	if err != nil {
		return err
	}
	if format != "wire" && len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// ToProto returns the protocol message form of diags.
func ToProto(diags []Diagnostic) *structpb.ListValue {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(diags))}
	for _, d := range diags {
		fields := make(map[string]*structpb.Value)
		str := func(key, value string) {
			if value != "" {
				fields[key] = structpb.NewStringValue(value)
			}
		}
		num := func(key string, value int) {
			if value != 0 {
				fields[key] = structpb.NewNumberValue(float64(value))
			}
		}
		str("file", d.File)
		num("line", d.Line)
		num("col", d.Col)
		str("kind", d.Kind)
		str("name", d.Name)
		str("message", d.Message)
		str("hint", d.Hint)
		list.Values = append(list.Values, structpb.NewStructValue(&structpb.Struct{Fields: fields}))
	}
	return list
}
