package events

import (
	"testing"
	"time"
)

func TestMetadataRoundTrip(t *testing.T) {
	emitted := time.Date(2024, 3, 10, 12, 30, 45, 123000000, time.UTC)
	headers := EncodeMetadata(Metadata{
		Operation: OperationCreated,
		Source:    "offering",
		Timestamp: emitted,
	})

	decoded := DecodeMetadata(headers)
	if decoded.Operation != OperationCreated {
		t.Fatalf("expected operation created, got %q", decoded.Operation)
	}
	if decoded.Source != "offering" {
		t.Fatalf("expected source offering, got %q", decoded.Source)
	}
	if !decoded.Timestamp.Equal(emitted) {
		t.Fatalf("expected timestamp %v, got %v", emitted, decoded.Timestamp)
	}
}

func TestDecodeMetadataToleratesMissingHeaders(t *testing.T) {
	decoded := DecodeMetadata(nil)
	if decoded.Operation != "" || decoded.Source != "" || !decoded.Timestamp.IsZero() {
		t.Fatalf("expected zero metadata, got %+v", decoded)
	}
}

func TestDecodeMetadataIgnoresUnknownHeaders(t *testing.T) {
	decoded := DecodeMetadata([]Header{
		{Key: "operation", Value: []byte("updated")},
		{Key: "trace-id", Value: []byte("abc-123")},
		{Key: "schema", Value: []byte("v2")},
	})
	if decoded.Operation != OperationUpdated {
		t.Fatalf("expected operation updated, got %q", decoded.Operation)
	}
}

func TestDecodeMetadataMalformedTimestamp(t *testing.T) {
	decoded := DecodeMetadata([]Header{
		{Key: "timestamp", Value: []byte("not-a-number")},
	})
	if !decoded.Timestamp.IsZero() {
		t.Fatalf("expected zero timestamp, got %v", decoded.Timestamp)
	}
}

func TestParseOperation(t *testing.T) {
	for _, value := range []string{"created", "updated", "deleted"} {
		if _, ok := ParseOperation(value); !ok {
			t.Fatalf("expected %q to parse", value)
		}
	}
	if _, ok := ParseOperation("archived"); ok {
		t.Fatalf("expected unknown operation to be rejected")
	}
}
