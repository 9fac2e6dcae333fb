package events

import (
	"strconv"
	"time"
)

// Wire shape: protocol metadata travels out-of-band as flat message headers
// (operation, source, timestamp); the message body is the bare JSON entity.

const (
	HeaderOperation = "operation"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Operation is the closed set of event operation kinds.
type Operation string

const (
	OperationCreated Operation = "created"
	OperationUpdated Operation = "updated"
	OperationDeleted Operation = "deleted"
)

// ParseOperation reports whether value names a known operation kind.
// Unknown tags are not an error; consumers skip them.
func ParseOperation(value string) (Operation, bool) {
	switch Operation(value) {
	case OperationCreated, OperationUpdated, OperationDeleted:
		return Operation(value), true
	default:
		return "", false
	}
}

// Header is one flat wire header.
type Header struct {
	Key   string
	Value []byte
}

// Metadata is the envelope around a business payload.
type Metadata struct {
	Operation Operation
	Source    string
	Timestamp time.Time
}

// Message is a decoded bus message: envelope metadata plus the raw entity body.
type Message struct {
	Key      string
	Metadata Metadata
	Payload  []byte
}

// EncodeMetadata renders metadata as flat headers. The timestamp is encoded
// as unix milliseconds in decimal, matching the upstream product stream.
func EncodeMetadata(md Metadata) []Header {
	return []Header{
		{Key: HeaderOperation, Value: []byte(md.Operation)},
		{Key: HeaderSource, Value: []byte(md.Source)},
		{Key: HeaderTimestamp, Value: []byte(strconv.FormatInt(md.Timestamp.UTC().UnixMilli(), 10))},
	}
}

// DecodeMetadata reads recognized headers from a message. Missing headers
// leave zero values, unknown headers are ignored, and a malformed timestamp
// decodes as the zero time. Decoding never fails.
func DecodeMetadata(headers []Header) Metadata {
	var md Metadata
	for _, header := range headers {
		switch header.Key {
		case HeaderOperation:
			md.Operation = Operation(header.Value)
		case HeaderSource:
			md.Source = string(header.Value)
		case HeaderTimestamp:
			millis, err := strconv.ParseInt(string(header.Value), 10, 64)
			if err != nil {
				continue
			}
			md.Timestamp = time.UnixMilli(millis).UTC()
		}
	}
	return md
}
