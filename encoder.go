package borabora

import (
	"github.com/chaisql/borabora/internal/builder"
	"github.com/chaisql/borabora/internal/jsonconv"
)

// Encoder writes items forward into an output. See the builder methods
// it provides for the available items.
type Encoder = builder.Encoder

// NewEncoder returns an encoder writing to out with the tag encoders of p.
func (p *Parser) NewEncoder(out Output) *Encoder {
	return builder.NewEncoder(out, p.opts.Encoders)
}

// FromJSON transcodes the JSON document data into out and returns the
// number of bytes written. Every container gets a definite length.
func FromJSON(data []byte, out Output) (int64, error) {
	e := builder.NewEncoder(out, nil)
	if err := jsonconv.Encode(&e.ValueWriter, data); err != nil {
		return 0, err
	}

	return e.Offset(), nil
}
