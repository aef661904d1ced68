package accounting

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// EnvelopeKind identifies which response shape the accounting register used.
type EnvelopeKind int

// Observed envelope shapes.
const (
	EnvelopeUnrecognized EnvelopeKind = iota
	// EnvelopeArray is a bare JSON array of records.
	EnvelopeArray
	// EnvelopeEmbedded is an object carrying the records under _embedded.regnskap.
	EnvelopeEmbedded
	// EnvelopeSingle is one record object with id and virksomhet.
	EnvelopeSingle
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeArray:
		return "array"
	case EnvelopeEmbedded:
		return "embedded"
	case EnvelopeSingle:
		return "single"
	default:
		return "unrecognized"
	}
}

// Envelope is a classified accounting response.
type Envelope struct {
	Kind    EnvelopeKind
	Records []gjson.Result
}

// Classify resolves the envelope shape before any record is read. An
// unrecognized payload yields EnvelopeUnrecognized with no records.
func Classify(payload []byte) Envelope {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return Envelope{Kind: EnvelopeUnrecognized}
	}
	root := gjson.ParseBytes(payload)
	switch {
	case root.IsArray():
		return Envelope{Kind: EnvelopeArray, Records: root.Array()}
	case root.IsObject():
		if embedded := root.Get("_embedded.regnskap"); embedded.IsArray() {
			return Envelope{Kind: EnvelopeEmbedded, Records: embedded.Array()}
		}
		if root.Get("id").Exists() && root.Get("virksomhet").Exists() {
			return Envelope{Kind: EnvelopeSingle, Records: []gjson.Result{root}}
		}
	}
	return Envelope{Kind: EnvelopeUnrecognized}
}
