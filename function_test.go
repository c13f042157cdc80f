package function

import (
	"context"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2/event"
)

func gcsEvent(t *testing.T, payload string) cloudevents.Event {
	t.Helper()
	e := cloudevents.New()
	e.SetID("test-event-id")
	e.SetType("google.cloud.storage.object.v1.finalized")
	e.SetSource("//storage.googleapis.com/projects/_/buckets/events")
	if err := e.SetData(cloudevents.ApplicationJSON, []byte(payload)); err != nil {
		t.Fatalf("setting event data: %v", err)
	}
	return e
}

func TestProcessUserEvents_RejectsEmptyPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing bucket", `{"name":"events.csv"}`},
		{"missing object", `{"bucket":"events"}`},
		{"empty payload", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := processUserEvents(context.Background(), gcsEvent(t, tt.payload))
			if err == nil {
				t.Error("expected error for incomplete storage payload")
			}
		})
	}
}

func TestStorageObjectData_Decode(t *testing.T) {
	e := gcsEvent(t, `{"bucket":"events","name":"uploads/u.csv","size":"123"}`)

	var data StorageObjectData
	if err := e.DataAs(&data); err != nil {
		t.Fatalf("DataAs failed: %v", err)
	}
	if data.Bucket != "events" || data.Name != "uploads/u.csv" {
		t.Errorf("decoded %+v", data)
	}
}
