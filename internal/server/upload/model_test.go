package upload

import (
	"encoding/json"
	"testing"
	"time"
)

// The batch endpoints nest their per-file partitions under "data"; clients
// read resp.data.successful / resp.data.failed.
func TestManifestWireShape(t *testing.T) {
	t.Parallel()

	m := &Manifest{
		SessionID: "ns1",
		ProjectID: "p-1",
		ExpiresAt: time.Now().UTC(),
		Stats:     BatchStats{Total: 2, Successful: 1, Failed: 1},
		Data: ManifestData{
			Successful: []*FileDescriptor{{OriginalName: "a.png", Key: "k1"}},
			Failed:     []*FileFailure{{OriginalName: "b.pdf", Error: "unsupported type"}},
		},
		Categories: map[string]string{"Haldi": "c-1"},
	}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if _, ok := got["data"]; !ok {
		t.Fatalf("manifest must carry a data envelope: %s", raw)
	}
	if _, ok := got["successful"]; ok {
		t.Fatalf("partitions must not leak to the top level: %s", raw)
	}

	var data struct {
		Successful []*FileDescriptor `json:"successful"`
		Failed     []*FileFailure    `json:"failed"`
	}
	if err := json.Unmarshal(got["data"], &data); err != nil {
		t.Fatalf("data envelope unmarshal error: %v", err)
	}
	if len(data.Successful) != 1 || data.Successful[0].Key != "k1" {
		t.Fatalf("unexpected data.successful: %+v", data.Successful)
	}
	if len(data.Failed) != 1 || data.Failed[0].OriginalName != "b.pdf" {
		t.Fatalf("unexpected data.failed: %+v", data.Failed)
	}
}

func TestCompletionResultWireShape(t *testing.T) {
	t.Parallel()

	r := &CompletionResult{
		SessionID: "ns1",
		Stats:     BatchStats{Total: 1, Successful: 1},
		TotalSize: 2048,
		Data: CompletionData{
			Successful: []*VerifiedFile{{CompletedFile: CompletedFile{Key: "k1"}, ImageID: "img-1"}},
			Failed:     []*FileFailure{},
		},
		CompletedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if _, ok := got["data"]; !ok {
		t.Fatalf("completion result must carry a data envelope: %s", raw)
	}
	if _, ok := got["successful"]; ok {
		t.Fatalf("partitions must not leak to the top level: %s", raw)
	}
}
