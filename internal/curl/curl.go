// Package curl parses a textual cURL invocation into a structured request.
//
// The accepted grammar is a permissive subset of the common cURL forms: the
// flags the engine cares about are recognized, known pass-through flags are
// skipped, and anything else is ignored rather than rejected.
package curl

import (
	"errors"
	"fmt"
	"strings"

	"apivet/internal/ir"
)

var ErrParse = errors.New("parse error")

// Flags that take an argument but carry nothing the engine needs.
var skipWithArg = map[string]bool{
	"-o": true, "--output": true,
	"-w": true, "--write-out": true,
	"-c": true, "--cookie-jar": true,
	"-b": true, "--cookie": true,
	"-u": true, "--user": true,
}

// Parse turns a cURL command line into an ir.Request. It fails with an
// ErrParse-wrapped error when the text cannot be tokenized or contains no
// URL-shaped token.
func Parse(command string) (*ir.Request, error) {
	tokens, err := tokenize(command)
	if err != nil {
		return nil, err
	}
	if len(tokens) > 0 && strings.EqualFold(tokens[0], "curl") {
		tokens = tokens[1:]
	}

	req := &ir.Request{VerifyTLS: true}
	methodSet := false
	bodySet := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "-X" || tok == "--request":
			if i+1 < len(tokens) {
				req.Method = strings.ToUpper(tokens[i+1])
				methodSet = true
				i++
			}

		case tok == "-H" || tok == "--header":
			if i+1 < len(tokens) {
				if name, value, ok := strings.Cut(tokens[i+1], ":"); ok {
					req.SetHeader(strings.TrimSpace(name), strings.TrimSpace(value))
				}
				i++
			}

		case tok == "-d" || tok == "--data" || tok == "--data-raw" || tok == "--data-binary":
			if i+1 < len(tokens) {
				req.Body = []byte(tokens[i+1])
				bodySet = true
				i++
			}

		case tok == "--json":
			if i+1 < len(tokens) {
				req.Body = []byte(tokens[i+1])
				bodySet = true
				if !req.HasHeader("Content-Type") {
					req.SetHeader("Content-Type", "application/json")
				}
				i++
			}

		case tok == "-k" || tok == "--insecure":
			req.VerifyTLS = false

		case tok == "-A" || tok == "--user-agent":
			if i+1 < len(tokens) {
				req.SetHeader("User-Agent", tokens[i+1])
				i++
			}

		case skipWithArg[tok]:
			i++

		case strings.HasPrefix(tok, "-"):
			// Unknown flag: ignore.

		case req.URL == "" && looksLikeURL(tok):
			req.URL = tok
			if !strings.HasPrefix(tok, "http://") && !strings.HasPrefix(tok, "https://") {
				req.URL = "https://" + tok
			}
		}
	}

	if req.URL == "" {
		return nil, fmt.Errorf("%w: no URL found in curl command", ErrParse)
	}
	if req.Method == "" {
		req.Method = "GET"
	}
	if bodySet && !methodSet {
		req.Method = "POST"
	}
	return req, nil
}

func looksLikeURL(tok string) bool {
	return strings.HasPrefix(tok, "http://") ||
		strings.HasPrefix(tok, "https://") ||
		strings.Contains(tok, ".")
}

// tokenize splits command text the way a shell lexer would: whitespace
// separates tokens, single and double quotes group and are stripped, a
// backslash-escaped quote of the active style is kept literally, and a
// backslash before a newline continues the line.
func tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inTok   bool
		quote   byte // 0 when outside quotes
		src     = []byte(s)
		errQuot = fmt.Errorf("%w: unterminated quote in curl command", ErrParse)
	)

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(src) && (src[i+1] == quote || src[i+1] == '\\') {
				cur.WriteByte(src[i+1])
				i++
			} else if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}

		case c == '\'' || c == '"':
			quote = c
			inTok = true

		case c == '\\':
			if i+1 >= len(src) {
				cur.WriteByte(c)
				inTok = true
				break
			}
			if src[i+1] == '\n' {
				i++ // line continuation
				break
			}
			if src[i+1] == '\r' && i+2 < len(src) && src[i+2] == '\n' {
				i += 2 // CRLF line continuation
				break
			}
			cur.WriteByte(src[i+1])
			inTok = true
			i++

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}

		default:
			cur.WriteByte(c)
			inTok = true
		}
	}
	if quote != 0 {
		return nil, errQuot
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
